package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"shiftstock/internal/common"
	"shiftstock/internal/models"
	"shiftstock/internal/repositories"
	"shiftstock/internal/status"
)

const (
	ReportModeWeekly  = "weekly"
	ReportModeMonthly = "monthly"

	topProblemLimit = 12
)

type ReportService interface {
	DateRange(mode, anchor string) (string, string, error)
	Summarize(ctx context.Context, storeID, startDate, endDate string) (*models.ReportSummary, error)
	SummaryCSV(ctx context.Context, storeID, startDate, endDate string) ([]byte, error)
	DetailedCSV(ctx context.Context, storeID, startDate, endDate string) ([]byte, error)
	Archive(ctx context.Context, storeID, mode, anchor, variant string) (string, error)
}

type reportService struct {
	submissionRepo repositories.SubmissionRepository
	itemRepo       repositories.ItemRepository
	objectStore    ObjectStoreService
	bucketName     string
}

func NewReportService(submissionRepo repositories.SubmissionRepository, itemRepo repositories.ItemRepository, objectStore ObjectStoreService, bucketName string) ReportService {
	return &reportService{
		submissionRepo: submissionRepo,
		itemRepo:       itemRepo,
		objectStore:    objectStore,
		bucketName:     bucketName,
	}
}

// DateRange resolves a report window from its anchor day. Weekly windows
// start on Monday, so a Sunday anchor rolls back six days, not zero. Monthly
// windows start on the first. The anchor itself is the inclusive end.
func (s *reportService) DateRange(mode, anchor string) (string, string, error) {
	day, err := time.Parse(common.DayLayout, anchor)
	if err != nil {
		return "", "", fmt.Errorf("%w: anchor must be YYYY-MM-DD", ErrValidation)
	}

	var start time.Time
	switch mode {
	case ReportModeWeekly:
		offset := int(day.Weekday()) - int(time.Monday)
		if offset < 0 {
			offset += 7
		}
		start = day.AddDate(0, 0, -offset)
	case ReportModeMonthly:
		start = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	default:
		return "", "", fmt.Errorf("%w: unknown report mode %q", ErrValidation, mode)
	}

	return start.Format(common.DayLayout), day.Format(common.DayLayout), nil
}

type problemTally struct {
	name    string
	out     int
	low     int
	ok      int
	lastQty *float64
	unit    string
}

// Summarize aggregates every submission in the window into totals and a
// ranked problem list. Score weights OUT occurrences double LOW occurrences;
// ties break alphabetically by item name.
func (s *reportService) Summarize(ctx context.Context, storeID, startDate, endDate string) (*models.ReportSummary, error) {
	subs, err := s.submissionRepo.ListBetween(ctx, storeID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	catalog, err := s.itemRepo.ListByStore(ctx, storeID, true)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(catalog))
	for _, item := range catalog {
		names[item.ID.String()] = item.Name
	}

	summary := &models.ReportSummary{TotalSubmissions: len(subs)}
	tallies := make(map[string]*problemTally)

	// ListBetween returns days in ascending order, so the last write into a
	// tally is the most recent quantity.
	for _, sub := range subs {
		summary.TotalOut += sub.LowOutSummary.OutCount
		summary.TotalLow += sub.LowOutSummary.LowCount

		for itemID, item := range sub.Items {
			tally, ok := tallies[itemID]
			if !ok {
				name := names[itemID]
				if name == "" {
					name = itemID
				}
				tally = &problemTally{name: name}
				tallies[itemID] = tally
			}
			switch item.Status {
			case status.OutOfStock:
				tally.out++
			case status.NeedStock:
				tally.low++
			default:
				tally.ok++
			}
			qty := item.Quantity
			tally.lastQty = &qty
			tally.unit = item.Unit
		}
	}

	problems := make([]models.ProblemItem, 0, len(tallies))
	for itemID, tally := range tallies {
		score := tally.out*2 + tally.low
		if score == 0 {
			continue
		}
		problems = append(problems, models.ProblemItem{
			ItemID:  itemID,
			Name:    tally.name,
			Out:     tally.out,
			Low:     tally.low,
			OK:      tally.ok,
			LastQty: tally.lastQty,
			Unit:    tally.unit,
			Score:   score,
		})
	}

	sort.Slice(problems, func(i, j int) bool {
		if problems[i].Score != problems[j].Score {
			return problems[i].Score > problems[j].Score
		}
		return problems[i].Name < problems[j].Name
	})
	if len(problems) > topProblemLimit {
		problems = problems[:topProblemLimit]
	}
	summary.TopProblems = problems

	return summary, nil
}

func encodeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatQty(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func (s *reportService) SummaryCSV(ctx context.Context, storeID, startDate, endDate string) ([]byte, error) {
	summary, err := s.Summarize(ctx, storeID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	rows := [][]string{{"Item", "OUT count", "LOW count", "OK count", "Score", "Last qty", "Unit"}}
	for _, p := range summary.TopProblems {
		rows = append(rows, []string{
			p.Name,
			strconv.Itoa(p.Out),
			strconv.Itoa(p.Low),
			strconv.Itoa(p.OK),
			strconv.Itoa(p.Score),
			formatQty(p.LastQty),
			p.Unit,
		})
	}
	return encodeCSV(rows)
}

// DetailedCSV emits one row per item line of every submission in the window,
// days ascending, items in name order within a day.
func (s *reportService) DetailedCSV(ctx context.Context, storeID, startDate, endDate string) ([]byte, error) {
	subs, err := s.submissionRepo.ListBetween(ctx, storeID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	catalog, err := s.itemRepo.ListByStore(ctx, storeID, true)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(catalog))
	for _, item := range catalog {
		names[item.ID.String()] = item.Name
	}

	rows := [][]string{{"submittedDate", "submittedAt", "submittedBy", "itemId", "itemName", "quantity", "unit", "status"}}
	for _, sub := range subs {
		itemIDs := make([]string, 0, len(sub.Items))
		for id := range sub.Items {
			itemIDs = append(itemIDs, id)
		}
		sort.Slice(itemIDs, func(i, j int) bool {
			ni, nj := names[itemIDs[i]], names[itemIDs[j]]
			if ni != nj {
				return ni < nj
			}
			return itemIDs[i] < itemIDs[j]
		})

		for _, itemID := range itemIDs {
			item := sub.Items[itemID]
			name := names[itemID]
			if name == "" {
				name = itemID
			}
			qty := item.Quantity
			rows = append(rows, []string{
				sub.SubmittedDate,
				sub.SubmittedAt.UTC().Format(time.RFC3339),
				sub.SubmittedByName,
				itemID,
				name,
				formatQty(&qty),
				item.Unit,
				item.Status,
			})
		}
	}
	return encodeCSV(rows)
}

// Archive renders the requested CSV variant, stores it in the reports bucket
// and hands back a presigned download link.
func (s *reportService) Archive(ctx context.Context, storeID, mode, anchor, variant string) (string, error) {
	startDate, endDate, err := s.DateRange(mode, anchor)
	if err != nil {
		return "", err
	}

	var data []byte
	switch variant {
	case "summary":
		data, err = s.SummaryCSV(ctx, storeID, startDate, endDate)
	case "detailed":
		data, err = s.DetailedCSV(ctx, storeID, startDate, endDate)
	default:
		return "", fmt.Errorf("%w: unknown report variant %q", ErrValidation, variant)
	}
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("report_%s_%s_%s_to_%s_%s.csv", storeID, mode, startDate, endDate, variant)

	if err := s.objectStore.EnsureBucketExists(ctx, s.bucketName); err != nil {
		return "", err
	}
	if err := s.objectStore.UploadCSV(ctx, s.bucketName, objectName, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", err
	}

	return s.objectStore.GetPresignedURL(ctx, s.bucketName, objectName, 24*time.Hour)
}
