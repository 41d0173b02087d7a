// Package store provides in-memory store implementations for testing/dev.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements every payroll store interface in memory.
type Memory struct {
	mu       sync.RWMutex
	events   []payroll.AttendanceEvent
	terms    map[payroll.StaffID]payroll.CompensationTerms
	overtime []payroll.OvertimeRequest
	finance  []payroll.FinancialRequest
	payslips map[payslipKey]payroll.Payslip
	runs     []payroll.ReconciliationRun
	nextID   int
}

type payslipKey struct {
	StaffID payroll.StaffID
	Period  string
}

func NewMemory() *Memory {
	return &Memory{
		terms:    make(map[payroll.StaffID]payroll.CompensationTerms),
		payslips: make(map[payslipKey]payroll.Payslip),
	}
}

// NextEventID mints a deterministic event id. Useful as Reconciler.NewEventID.
func (m *Memory) NextEventID() payroll.EventID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return payroll.EventID(fmt.Sprintf("evt-%d", m.nextID))
}

// =============================================================================
// EVENT STORE
// =============================================================================

func (m *Memory) ListEvents(_ context.Context, staffID payroll.StaffID, period payroll.Period) ([]payroll.AttendanceEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []payroll.AttendanceEvent
	for _, e := range m.events {
		if staffID != "" && e.StaffID != staffID {
			continue
		}
		if period.Contains(e.Date()) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].StaffID != result[j].StaffID {
			return result[i].StaffID < result[j].StaffID
		}
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

func (m *Memory) GetEvent(_ context.Context, id payroll.EventID) (payroll.AttendanceEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.events {
		if e.ID == id {
			return e, nil
		}
	}
	return payroll.AttendanceEvent{}, payroll.ErrEventNotFound
}

func (m *Memory) AppendEvent(_ context.Context, e payroll.AttendanceEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.ID == "" {
		m.nextID++
		e.ID = payroll.EventID(fmt.Sprintf("evt-%d", m.nextID))
	}
	m.events = append(m.events, e)
	return nil
}

func (m *Memory) UpdateEvent(_ context.Context, e payroll.AttendanceEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.events {
		if m.events[i].ID == e.ID {
			m.events[i] = e
			return nil
		}
	}
	return payroll.ErrEventNotFound
}

// =============================================================================
// COMPENSATION STORE
// =============================================================================

func (m *Memory) SaveCompensationTerms(_ context.Context, terms payroll.CompensationTerms) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.terms[terms.StaffID] = terms
	return nil
}

func (m *Memory) GetCompensationTerms(_ context.Context, staffID payroll.StaffID) (payroll.CompensationTerms, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	terms, ok := m.terms[staffID]
	if !ok {
		return payroll.CompensationTerms{}, payroll.ErrStaffNotFound
	}
	return terms, nil
}

// =============================================================================
// OVERTIME STORE
// =============================================================================

func (m *Memory) SaveOvertimeRequest(_ context.Context, r payroll.OvertimeRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.overtime {
		if m.overtime[i].ID == r.ID {
			m.overtime[i] = r
			return nil
		}
	}
	m.overtime = append(m.overtime, r)
	return nil
}

func (m *Memory) ListApprovedOvertime(_ context.Context, staffID payroll.StaffID, period payroll.Period) ([]payroll.OvertimeRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []payroll.OvertimeRequest
	for _, r := range m.overtime {
		if r.StaffID == staffID && r.Status == payroll.StatusApproved && period.Contains(r.Date) {
			result = append(result, r)
		}
	}
	return result, nil
}

// =============================================================================
// FINANCE STORE
// =============================================================================

func (m *Memory) SaveFinancialRequest(_ context.Context, r payroll.FinancialRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.finance {
		if m.finance[i].ID == r.ID {
			m.finance[i] = r
			return nil
		}
	}
	m.finance = append(m.finance, r)
	return nil
}

func (m *Memory) SumApprovedFinancialRequests(_ context.Context, staffID payroll.StaffID, kind payroll.FinancialKind, period payroll.Period) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sum := decimal.Zero
	for _, r := range m.finance {
		if r.StaffID == staffID && r.Kind == kind && r.Status == payroll.StatusApproved && period.Contains(r.Date) {
			sum = sum.Add(r.Amount)
		}
	}
	return sum, nil
}

// =============================================================================
// PAYSLIP STORE - Write-once
// =============================================================================

func (m *Memory) SavePayslip(_ context.Context, p payroll.Payslip) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := payslipKey{StaffID: p.StaffID, Period: p.Period.String()}
	if _, exists := m.payslips[k]; exists {
		return payroll.ErrPayslipExists
	}
	m.payslips[k] = p
	return nil
}

func (m *Memory) ListPayslips(_ context.Context, staffID payroll.StaffID) ([]payroll.Payslip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []payroll.Payslip
	for _, p := range m.payslips {
		if p.StaffID == staffID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Period.Start.Before(result[j].Period.Start)
	})
	return result, nil
}

// =============================================================================
// RUN STORE
// =============================================================================

func (m *Memory) SaveRun(_ context.Context, run payroll.ReconciliationRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *Memory) ListRuns(_ context.Context, limit int) ([]payroll.ReconciliationRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := make([]payroll.ReconciliationRun, len(m.runs))
	copy(runs, m.runs)
	// Most recent first.
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
