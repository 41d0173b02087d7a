/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements the payroll store interfaces (EventStore, CompensationStore,
  OvertimeStore, FinanceStore, PayslipStore, RunStore) using SQLite. In
  production the same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

KEY TABLES:
  staff:              Staff records with compensation fields
  attendance_events:  Append-mostly clock stream (mutable only via adjustment)
  overtime_requests:  Overtime claims with approval status
  financial_requests: Advance/loan claims with approval status
  payslips:           Write-once payroll history rows
  reconciliation_runs: Audit records for the auto-reconciliation job

MUTATION CONTRACT:
  attendance_events has no DELETE path. UPDATE is restricted to the
  adjustment gateway and reconciliation, which overwrite timestamp,
  provenance and note in place. Saved payslips are write-once: the unique
  index on (staff_id, period_start, period_end) rejects a second save.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, plus WAL mode so readers don't block.
  Independent payroll reads may run concurrently with reconciliation and
  adjustment writes; single-write atomicity is all the engine assumes.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - payroll/store.go: Interface definitions
  - payroll/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Staff records with compensation fields
	CREATE TABLE IF NOT EXISTS staff (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		hourly_rate TEXT NOT NULL DEFAULT '0',
		monthly_salary TEXT NOT NULL DEFAULT '0',
		bonus TEXT NOT NULL DEFAULT '0',
		housing_allowance TEXT NOT NULL DEFAULT '0',
		medical_allowance TEXT NOT NULL DEFAULT '0',
		other_allowance TEXT NOT NULL DEFAULT '0',
		social_security TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL
	);

	-- Attendance events (append-mostly clock stream)
	CREATE TABLE IF NOT EXISTS attendance_events (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		occurred_at TEXT NOT NULL,
		provenance TEXT NOT NULL DEFAULT 'user',
		note TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	-- Hot path: per-staff per-day scans for reconstruction and reconciliation
	CREATE INDEX IF NOT EXISTS idx_events_staff_time
		ON attendance_events(staff_id, occurred_at);
	CREATE INDEX IF NOT EXISTS idx_events_time
		ON attendance_events(occurred_at);

	-- Overtime requests
	CREATE TABLE IF NOT EXISTS overtime_requests (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL,
		date TEXT NOT NULL,
		hours_worked TEXT NOT NULL,
		overtime_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_overtime_staff_date
		ON overtime_requests(staff_id, date);
	CREATE INDEX IF NOT EXISTS idx_overtime_status
		ON overtime_requests(status);

	-- Financial requests (advances, loans)
	CREATE TABLE IF NOT EXISTS financial_requests (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_financial_staff_kind
		ON financial_requests(staff_id, kind, status, date);

	-- Payslip history (write-once)
	CREATE TABLE IF NOT EXISTS payslips (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		staff_id TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		basic TEXT NOT NULL,
		normal_overtime_pay TEXT NOT NULL,
		sunday_overtime_pay TEXT NOT NULL,
		bonus TEXT NOT NULL,
		housing_allowance TEXT NOT NULL,
		medical_allowance TEXT NOT NULL,
		other_allowance TEXT NOT NULL,
		advance TEXT NOT NULL,
		loan TEXT NOT NULL,
		social_security TEXT NOT NULL,
		tax TEXT NOT NULL,
		total_earnings TEXT NOT NULL,
		total_deductions TEXT NOT NULL,
		gross_income TEXT NOT NULL,
		net_income TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Write-once: one saved payslip per staff+period
	CREATE UNIQUE INDEX IF NOT EXISTS idx_payslips_unique
		ON payslips(staff_id, period_start, period_end);

	-- Reconciliation runs (job audit)
	CREATE TABLE IF NOT EXISTS reconciliation_runs (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		reconciled INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		started_at TEXT,
		finished_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_date
		ON reconciliation_runs(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// STAFF + COMPENSATION (payroll.CompensationStore interface)
// =============================================================================

// Staff is a staff record with its compensation fields.
type Staff struct {
	ID        payroll.StaffID
	Name      string
	Email     string
	Terms     payroll.CompensationTerms
	CreatedAt time.Time
}

// SaveStaff inserts or replaces a staff record.
func (s *Store) SaveStaff(ctx context.Context, st Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT OR REPLACE INTO staff
		(id, name, email, hourly_rate, monthly_salary, bonus, housing_allowance,
		 medical_allowance, other_allowance, social_security, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		st.ID, st.Name, st.Email,
		st.Terms.HourlyRate.String(),
		st.Terms.MonthlySalary.String(),
		st.Terms.Bonus.String(),
		st.Terms.HousingAllowance.String(),
		st.Terms.MedicalAllowance.String(),
		st.Terms.OtherAllowance.String(),
		st.Terms.SocialSecurity.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save staff: %w", err)
	}
	return nil
}

// GetStaff returns one staff record by id.
func (s *Store) GetStaff(ctx context.Context, id payroll.StaffID) (Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getStaffLocked(ctx, id)
}

func (s *Store) getStaffLocked(ctx context.Context, id payroll.StaffID) (Staff, error) {
	query := `
		SELECT id, name, email, hourly_rate, monthly_salary, bonus, housing_allowance,
		       medical_allowance, other_allowance, social_security, created_at
		FROM staff WHERE id = ?
	`
	var (
		st                                                 Staff
		email                                              sql.NullString
		createdAt                                          string
		rate, salary, bonus, housing, medical, other, ssc string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&st.ID, &st.Name, &email, &rate, &salary, &bonus,
		&housing, &medical, &other, &ssc, &createdAt,
	)
	if err == sql.ErrNoRows {
		return Staff{}, payroll.ErrStaffNotFound
	}
	if err != nil {
		return Staff{}, fmt.Errorf("failed to get staff: %w", err)
	}

	st.Email = email.String
	st.Terms = payroll.CompensationTerms{
		StaffID:          st.ID,
		HourlyRate:       parseDecimal(rate),
		MonthlySalary:    parseDecimal(salary),
		Bonus:            parseDecimal(bonus),
		HousingAllowance: parseDecimal(housing),
		MedicalAllowance: parseDecimal(medical),
		OtherAllowance:   parseDecimal(other),
		SocialSecurity:   parseDecimal(ssc),
	}
	st.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return st, nil
}

// ListStaff returns all staff records.
func (s *Store) ListStaff(ctx context.Context) ([]Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM staff ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var ids []payroll.StaffID
	for rows.Next() {
		var id payroll.StaffID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var result []Staff
	for _, id := range ids {
		st, err := s.getStaffLocked(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, nil
}

// GetCompensationTerms implements payroll.CompensationStore.
func (s *Store) GetCompensationTerms(ctx context.Context, staffID payroll.StaffID) (payroll.CompensationTerms, error) {
	st, err := s.GetStaff(ctx, staffID)
	if err != nil {
		return payroll.CompensationTerms{}, err
	}
	return st.Terms, nil
}

// =============================================================================
// ATTENDANCE EVENTS (payroll.EventStore interface)
// =============================================================================

// ListEvents returns events in the period ordered by (staff, timestamp).
// Empty staffID means all staff.
func (s *Store) ListEvents(ctx context.Context, staffID payroll.StaffID, period payroll.Period) ([]payroll.AttendanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Period is inclusive of the end date, so the upper bound is the start
	// of the following day.
	from := period.Start.Time.Format(time.RFC3339)
	to := period.End.AddDays(1).Time.Format(time.RFC3339)

	query := `
		SELECT id, staff_id, event_type, occurred_at, provenance, note
		FROM attendance_events
		WHERE occurred_at >= ? AND occurred_at < ?
	`
	args := []any{from, to}
	if staffID != "" {
		query += ` AND staff_id = ?`
		args = append(args, staffID)
	}
	query += ` ORDER BY staff_id ASC, occurred_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []payroll.AttendanceEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetEvent returns one event by id.
func (s *Store) GetEvent(ctx context.Context, id payroll.EventID) (payroll.AttendanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, staff_id, event_type, occurred_at, provenance, note
		FROM attendance_events WHERE id = ?
	`
	var (
		e          payroll.AttendanceEvent
		occurredAt string
		note       sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.StaffID, &e.Type, &occurredAt, &e.Provenance, &note,
	)
	if err == sql.ErrNoRows {
		return payroll.AttendanceEvent{}, payroll.ErrEventNotFound
	}
	if err != nil {
		return payroll.AttendanceEvent{}, fmt.Errorf("failed to get event: %w", err)
	}
	e.Timestamp, _ = time.Parse(time.RFC3339, occurredAt)
	e.Note = note.String
	return e, nil
}

// AppendEvent persists a new clock event.
func (s *Store) AppendEvent(ctx context.Context, e payroll.AttendanceEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO attendance_events
		(id, staff_id, event_type, occurred_at, provenance, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.StaffID, e.Type,
		e.Timestamp.UTC().Format(time.RFC3339),
		e.Provenance, e.Note,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// UpdateEvent overwrites timestamp, provenance and note in place.
// Reserved for the adjustment gateway and reconciliation.
func (s *Store) UpdateEvent(ctx context.Context, e payroll.AttendanceEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE attendance_events
		SET occurred_at = ?, provenance = ?, note = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		e.Timestamp.UTC().Format(time.RFC3339),
		e.Provenance, e.Note,
		time.Now().UTC().Format(time.RFC3339),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return payroll.ErrEventNotFound
	}
	return nil
}

func scanEvent(rows *sql.Rows) (payroll.AttendanceEvent, error) {
	var (
		e          payroll.AttendanceEvent
		occurredAt string
		note       sql.NullString
	)
	if err := rows.Scan(&e.ID, &e.StaffID, &e.Type, &occurredAt, &e.Provenance, &note); err != nil {
		return e, fmt.Errorf("failed to scan event: %w", err)
	}
	e.Timestamp, _ = time.Parse(time.RFC3339, occurredAt)
	e.Note = note.String
	return e, nil
}

// =============================================================================
// OVERTIME REQUESTS (payroll.OvertimeStore interface)
// =============================================================================

// SaveOvertimeRequest inserts or replaces an overtime request.
func (s *Store) SaveOvertimeRequest(ctx context.Context, r payroll.OvertimeRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT OR REPLACE INTO overtime_requests
		(id, staff_id, date, hours_worked, overtime_type, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.StaffID, r.Date.String(), r.HoursWorked.String(),
		r.Type, r.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save overtime request: %w", err)
	}
	return nil
}

// SetOvertimeStatus updates the approval status of a request.
func (s *Store) SetOvertimeStatus(ctx context.Context, id payroll.RequestID, status payroll.ApprovalStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE overtime_requests SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update overtime status: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("overtime request %s: %w", id, payroll.ErrEventNotFound)
	}
	return nil
}

// ListApprovedOvertime implements payroll.OvertimeStore. Pending and
// rejected rows are filtered here, never returned.
func (s *Store) ListApprovedOvertime(ctx context.Context, staffID payroll.StaffID, period payroll.Period) ([]payroll.OvertimeRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, staff_id, date, hours_worked, overtime_type, status
		FROM overtime_requests
		WHERE staff_id = ? AND status = 'approved' AND date >= ? AND date <= ?
		ORDER BY date ASC
	`
	rows, err := s.db.QueryContext(ctx, query, staffID, period.Start.String(), period.End.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query overtime: %w", err)
	}
	defer rows.Close()

	var requests []payroll.OvertimeRequest
	for rows.Next() {
		var (
			r     payroll.OvertimeRequest
			date  string
			hours string
		)
		if err := rows.Scan(&r.ID, &r.StaffID, &date, &hours, &r.Type, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan overtime request: %w", err)
		}
		r.Date, _ = payroll.ParseDate(date)
		r.HoursWorked = parseDecimal(hours)
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// =============================================================================
// FINANCIAL REQUESTS (payroll.FinanceStore interface)
// =============================================================================

// SaveFinancialRequest inserts or replaces an advance/loan request.
func (s *Store) SaveFinancialRequest(ctx context.Context, r payroll.FinancialRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT OR REPLACE INTO financial_requests
		(id, staff_id, kind, amount, date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.StaffID, r.Kind, r.Amount.String(), r.Date.String(), r.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save financial request: %w", err)
	}
	return nil
}

// SetFinancialStatus updates the approval status of a request.
func (s *Store) SetFinancialStatus(ctx context.Context, id payroll.RequestID, status payroll.ApprovalStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE financial_requests SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update financial status: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("financial request %s: %w", id, payroll.ErrEventNotFound)
	}
	return nil
}

// SumApprovedFinancialRequests implements payroll.FinanceStore. Absent data
// is zero, never an error.
func (s *Store) SumApprovedFinancialRequests(ctx context.Context, staffID payroll.StaffID, kind payroll.FinancialKind, period payroll.Period) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT amount FROM financial_requests
		WHERE staff_id = ? AND kind = ? AND status = 'approved'
		  AND date >= ? AND date <= ?
	`
	rows, err := s.db.QueryContext(ctx, query, staffID, kind, period.Start.String(), period.End.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query financial requests: %w", err)
	}
	defer rows.Close()

	sum := decimal.Zero
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(parseDecimal(amount))
	}
	return sum, rows.Err()
}

// =============================================================================
// PAYSLIP HISTORY (payroll.PayslipStore interface) - write-once
// =============================================================================

// SavePayslip persists a compiled payslip. A second save for the same
// staff+period returns ErrPayslipExists.
func (s *Store) SavePayslip(ctx context.Context, p payroll.Payslip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO payslips
		(staff_id, period_start, period_end, basic, normal_overtime_pay,
		 sunday_overtime_pay, bonus, housing_allowance, medical_allowance,
		 other_allowance, advance, loan, social_security, tax,
		 total_earnings, total_deductions, gross_income, net_income, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.StaffID, p.Period.Start.String(), p.Period.End.String(),
		p.Earnings.Basic.String(),
		p.Earnings.NormalOvertimePay.String(),
		p.Earnings.SundayOvertimePay.String(),
		p.Earnings.Bonus.String(),
		p.Earnings.HousingAllowance.String(),
		p.Earnings.MedicalAllowance.String(),
		p.Earnings.OtherAllowance.String(),
		p.Deductions.Advance.String(),
		p.Deductions.Loan.String(),
		p.Deductions.SocialSecurity.String(),
		p.Deductions.Tax.String(),
		p.Summary.TotalEarnings.String(),
		p.Summary.TotalDeductions.String(),
		p.Summary.GrossIncome.String(),
		p.Summary.NetIncome.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return payroll.ErrPayslipExists
		}
		return fmt.Errorf("failed to save payslip: %w", err)
	}
	return nil
}

// ListPayslips returns saved payslips for a staff member, oldest first.
func (s *Store) ListPayslips(ctx context.Context, staffID payroll.StaffID) ([]payroll.Payslip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT staff_id, period_start, period_end, basic, normal_overtime_pay,
		       sunday_overtime_pay, bonus, housing_allowance, medical_allowance,
		       other_allowance, advance, loan, social_security, tax,
		       total_earnings, total_deductions, gross_income, net_income
		FROM payslips WHERE staff_id = ? ORDER BY period_start ASC
	`
	rows, err := s.db.QueryContext(ctx, query, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		var (
			p                    payroll.Payslip
			start, end           string
			basic, normal, sun   string
			bonus, housing       string
			medical, other       string
			advance, loan        string
			ssc, tax             string
			earnings, deductions string
			gross, net           string
		)
		err := rows.Scan(&p.StaffID, &start, &end, &basic, &normal, &sun,
			&bonus, &housing, &medical, &other, &advance, &loan, &ssc, &tax,
			&earnings, &deductions, &gross, &net)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		p.Period.Start, _ = payroll.ParseDate(start)
		p.Period.End, _ = payroll.ParseDate(end)
		p.Earnings = payroll.Earnings{
			Basic:             parseDecimal(basic),
			NormalOvertimePay: parseDecimal(normal),
			SundayOvertimePay: parseDecimal(sun),
			Bonus:             parseDecimal(bonus),
			HousingAllowance:  parseDecimal(housing),
			MedicalAllowance:  parseDecimal(medical),
			OtherAllowance:    parseDecimal(other),
		}
		p.Deductions = payroll.Deductions{
			Advance:        parseDecimal(advance),
			Loan:           parseDecimal(loan),
			SocialSecurity: parseDecimal(ssc),
			Tax:            parseDecimal(tax),
		}
		p.Summary = payroll.PayslipSummary{
			TotalEarnings:   parseDecimal(earnings),
			TotalDeductions: parseDecimal(deductions),
			GrossIncome:     parseDecimal(gross),
			NetIncome:       parseDecimal(net),
		}
		payslips = append(payslips, p)
	}
	return payslips, rows.Err()
}

// =============================================================================
// RECONCILIATION RUNS (payroll.RunStore interface)
// =============================================================================

// SaveRun persists a reconciliation run record.
func (s *Store) SaveRun(ctx context.Context, run payroll.ReconciliationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT OR REPLACE INTO reconciliation_runs
		(id, date, reconciled, failed, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.Date.String(), run.Reconciled, run.Failed,
		run.Error, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save reconciliation run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent run records.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]payroll.ReconciliationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, date, reconciled, failed, error, started_at, finished_at
		FROM reconciliation_runs ORDER BY started_at DESC LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []payroll.ReconciliationRun
	for rows.Next() {
		var (
			run                 payroll.ReconciliationRun
			date                string
			errStr, start, stop sql.NullString
		)
		if err := rows.Scan(&run.ID, &date, &run.Reconciled, &run.Failed, &errStr, &start, &stop); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Date, _ = payroll.ParseDate(date)
		run.Error = errStr.String
		run.StartedAt = start.String
		run.FinishedAt = stop.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
