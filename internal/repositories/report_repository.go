package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"os-tracker/internal/entities"
)

type ReportRepositoryInterface interface {
	GetReport(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error)
	GetSummary(ctx context.Context, filter entities.ReportFilter, now time.Time) (*entities.ReportSummary, error)
}

type reportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) ReportRepositoryInterface {
	return &reportRepository{db: db}
}

// reportBase - общие FROM, JOIN и WHERE для отчёта и сводки.
func reportBase(filter entities.ReportFilter) sq.SelectBuilder {
	base := psql.Select().
		From("orders o").
		Join("clients c ON c.id = o.client_id").
		LeftJoin("partners ep ON ep.id = o.executor_partner_id")

	if filter.DateFrom != nil {
		base = base.Where(sq.GtOrEq{"o.created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		base = base.Where(sq.Lt{"o.created_at": *filter.DateTo})
	}
	if len(filter.ClientIDs) > 0 {
		base = base.Where(sq.Eq{"o.client_id": filter.ClientIDs})
	}
	if len(filter.PartnerIDs) > 0 {
		base = base.Where(sq.Eq{"o.executor_partner_id": filter.PartnerIDs})
	}
	if len(filter.Statuses) > 0 {
		base = base.Where(sq.Eq{"o.status": filter.Statuses})
	}
	return base
}

func (r *reportRepository) GetReport(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error) {
	base := reportBase(filter)

	countQuery, countArgs, err := base.Columns("COUNT(o.id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки COUNT-запроса: %w", err)
	}
	var totalCount uint64
	if err = r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения COUNT-запроса: %w", err)
	}
	if totalCount == 0 {
		return []entities.ReportItem{}, 0, nil
	}

	mainBuilder := base.Columns(
		"o.id", "o.number", "c.name", "ep.name", "o.project", "o.status", "o.urgent",
		"o.created_at", "o.finalized_at", "o.accumulated_seconds", "o.current_session_start",
	).OrderBy("o.number DESC")

	if filter.PerPage > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		mainBuilder = mainBuilder.Limit(uint64(filter.PerPage)).Offset(uint64((page - 1) * filter.PerPage))
	}

	query, args, err := mainBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки основного запроса: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения основного запроса: %w", err)
	}
	defer rows.Close()

	items := make([]entities.ReportItem, 0)
	for rows.Next() {
		var item entities.ReportItem
		err := rows.Scan(
			&item.OrderID, &item.Number, &item.ClientName, &item.ExecutorName, &item.Project,
			&item.Status, &item.Urgent, &item.CreatedAt, &item.FinalizedAt,
			&item.AccumulatedSeconds, &item.CurrentSessionStart,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, totalCount, nil
}

// GetSummary считает заявки по статусам и суммарное время производства на момент now.
func (r *reportRepository) GetSummary(ctx context.Context, filter entities.ReportFilter, now time.Time) (*entities.ReportSummary, error) {
	query, args, err := reportBase(filter).
		Columns(
			"o.status",
			"COUNT(o.id)",
			"COUNT(o.current_session_start)",
		).
		Column(sq.Expr(`COALESCE(SUM(o.accumulated_seconds + CASE
				WHEN o.current_session_start IS NULL THEN 0
				ELSE GREATEST(0, FLOOR(EXTRACT(EPOCH FROM (?::timestamptz - o.current_session_start))))::BIGINT
			END), 0)::BIGINT`, now)).
		GroupBy("o.status").
		OrderBy("o.status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса сводки: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса сводки: %w", err)
	}
	defer rows.Close()

	summary := &entities.ReportSummary{ByStatus: make([]entities.StatusCount, 0)}
	for rows.Next() {
		var (
			sc      entities.StatusCount
			running uint64
			seconds int64
		)
		if err := rows.Scan(&sc.Status, &sc.Count, &running, &seconds); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сводки: %w", err)
		}
		summary.ByStatus = append(summary.ByStatus, sc)
		summary.TotalOrders += sc.Count
		summary.RunningOrders += running
		summary.ProductionSeconds += seconds
	}
	return summary, rows.Err()
}
