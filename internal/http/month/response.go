package month

import (
	"github.com/MrJamesThe3rd/bye2money/internal/aggregate"
	"github.com/MrJamesThe3rd/bye2money/internal/entry"
	"github.com/MrJamesThe3rd/bye2money/internal/format"
)

type entryResponse struct {
	entry.Entry

	AmountLabel string `json:"amountLabel"`
}

type dayGroupResponse struct {
	Date              string          `json:"date"`
	Label             string          `json:"label"`
	DailyIncome       int64           `json:"dailyIncome"`
	DailyIncomeLabel  string          `json:"dailyIncomeLabel"`
	DailyExpense      int64           `json:"dailyExpense"`
	DailyExpenseLabel string          `json:"dailyExpenseLabel"`
	Entries           []entryResponse `json:"entries"`
}

type monthResponse struct {
	Month             string             `json:"month"`
	Prev              string             `json:"prev"`
	Next              string             `json:"next"`
	Title             string             `json:"title"`
	MonthName         string             `json:"monthName"`
	Locale            string             `json:"locale"`
	Status            string             `json:"status"`
	Message           string             `json:"message,omitempty"`
	Count             int                `json:"count"`
	CountLabel        string             `json:"countLabel"`
	TotalIncome       int64              `json:"totalIncome"`
	TotalIncomeLabel  string             `json:"totalIncomeLabel"`
	TotalExpense      int64              `json:"totalExpense"`
	TotalExpenseLabel string             `json:"totalExpenseLabel"`
	Groups            []dayGroupResponse `json:"groups"`
}

func toResponse(view aggregate.MonthlyView, f *format.Formatter) monthResponse {
	resp := monthResponse{
		Month:             view.Month.String(),
		Prev:              view.Month.Prev().String(),
		Next:              view.Month.Next().String(),
		Title:             f.MonthTitle(view.Month),
		MonthName:         format.MonthName(view.Month),
		Locale:            f.Tag().String(),
		Status:            view.Status.String(),
		Count:             view.Count,
		CountLabel:        f.Text(format.MsgCount, view.Count),
		TotalIncome:       view.TotalIncome,
		TotalIncomeLabel:  f.Currency(view.TotalIncome),
		TotalExpense:      view.TotalExpense,
		TotalExpenseLabel: f.Currency(view.TotalExpense),
		Groups:            make([]dayGroupResponse, 0, len(view.Groups)),
	}

	switch view.Status {
	case aggregate.StatusEmpty:
		resp.Message = f.Text(format.MsgEmptyMonth)
	case aggregate.StatusNotLoaded:
		resp.Message = f.Text(format.MsgNotLoaded)
	}

	for _, g := range view.Groups {
		group := dayGroupResponse{
			Date:              g.Date,
			Label:             f.DateLong(g.Date),
			DailyIncome:       g.DailyIncome,
			DailyIncomeLabel:  f.Text(format.MsgDailyIncome, f.Currency(g.DailyIncome)),
			DailyExpense:      g.DailyExpense,
			DailyExpenseLabel: f.Text(format.MsgDailyExpense, f.Currency(g.DailyExpense)),
			Entries:           make([]entryResponse, 0, len(g.Entries)),
		}

		for _, e := range g.Entries {
			group.Entries = append(group.Entries, entryResponse{Entry: e, AmountLabel: f.SignedAmount(e)})
		}

		resp.Groups = append(resp.Groups, group)
	}

	return resp
}
