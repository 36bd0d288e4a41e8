// Package report 把还款计划输出成控制台表格或分隔符文本，只做格式化不做金额计算。
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/riskmanagement123/loansim"
)

var ErrEmptySchedule = errors.New("schedule is empty")

var (
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	headerStyle = cellStyle.Bold(true).Align(lipgloss.Center)
)

// WriteTable 控制台表格 + 汇总。dueDates 可以为空；非空时长度不足的行留空。
func WriteTable(w io.Writer, s *loansim.LoanSchedule, dueDates []time.Time) error {
	if s == nil {
		return ErrEmptySchedule
	}
	headers := []string{"No.", "Principal", "Interest", "Payment", "Balance"}
	withDates := len(dueDates) > 0
	if withDates {
		headers = []string{"No.", "Due", "Principal", "Interest", "Payment", "Balance"}
	}

	rows := make([][]string, 0, len(s.Items))
	for i, inst := range s.Items {
		row := []string{strconv.Itoa(i + 1)}
		if withDates {
			due := ""
			if i < len(dueDates) {
				due = dueDates[i].Format("2006-01-02")
			}
			row = append(row, due)
		}
		row = append(row, inst.Capital.String(), inst.Interest.String(), inst.Payment.String(), inst.Balance.String())
		rows = append(rows, row)
	}

	textCols := 1
	if withDates {
		textCols = 2
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col < textCols:
				return cellStyle
			default:
				return numberStyle
			}
		})

	if _, err := fmt.Fprintf(w, "Loan Schedule:\n%s\n", t.String()); err != nil {
		return err
	}
	return WriteSummary(w, s)
}

// WriteSummary 汇总：本金、利息、总额
func WriteSummary(w io.Writer, s *loansim.LoanSchedule) error {
	_, err := fmt.Fprintf(w,
		"Total Principal Paid: %15s\nTotal Interest Cost:  %15s\nTotal Amount Paid:    %15s\nInstallments:         %15d\n",
		s.TotalPrincipal(), s.TotalInterest, s.TotalPaid, s.Count)
	return err
}

// WriteCSV 分隔符导出，格式：
//
//	Month;Principal;Interest;Payment;Balance
//	1;...
//	;;;;
//	SUMMARY;;;;
//	Total Interest;x;;;
//	Total Paid;y;;;
func WriteCSV(w io.Writer, s *loansim.LoanSchedule, delimiter rune) error {
	if s == nil {
		return ErrEmptySchedule
	}
	cw := csv.NewWriter(w)
	cw.Comma = delimiter

	records := make([][]string, 0, len(s.Items)+5)
	records = append(records, []string{"Month", "Principal", "Interest", "Payment", "Balance"})
	for i, inst := range s.Items {
		records = append(records, []string{
			strconv.Itoa(i + 1),
			inst.Capital.String(),
			inst.Interest.String(),
			inst.Payment.String(),
			inst.Balance.String(),
		})
	}
	records = append(records,
		[]string{"", "", "", "", ""},
		[]string{"SUMMARY", "", "", "", ""},
		[]string{"Total Interest", s.TotalInterest.String(), "", "", ""},
		[]string{"Total Paid", s.TotalPaid.String(), "", "", ""},
	)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv report: %w", err)
	}
	return nil
}
