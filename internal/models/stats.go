package models

import "time"

// FinancialStats — агрегаты по завершенным заказам.
// Profit всегда равен Received - Outlay - ReceivedWorker, все суммы
// по умолчанию 0 при отсутствии строк (никогда не null).
type FinancialStats struct {
	Count          int     `json:"count"`
	Received       float64 `json:"received"`
	Outlay         float64 `json:"outlay"`
	ReceivedWorker float64 `json:"received_worker"`
	Profit         float64 `json:"profit"`
}

// Period — отчетный период: год и месяцы (индексация месяцев с нуля,
// январь = 0). Годы отдаются по убыванию, месяцы внутри года — по
// возрастанию.
type Period struct {
	Year   int   `json:"year"`
	Months []int `json:"months"`
}

// LeafletStats — статистика по листовочным заказам: счетчики по статусам
// и разбивка прибыли на "к выплате" (FORPAYMENT) и "выплачено" (DONE).
type LeafletStats struct {
	Counts map[string]int `json:"counts"`
	ToPay  float64        `json:"to_pay"`
	Paid   float64        `json:"paid"`
}

// Goal — единственная строка целевых показателей (id = 1).
type Goal struct {
	ID    int64   `json:"id"`
	All   float64 `json:"all"`
	Month float64 `json:"month"`
	Day   float64 `json:"day"`
}

// Log — запись журнала действий. Журнал только пополняется,
// записи никогда не изменяются и не удаляются.
type Log struct {
	ID           int64     `json:"id"`
	WhoDid       string    `json:"who_did"`
	WhatHappened string    `json:"what_happened"`
	Type         string    `json:"type"`
	CreatedAt    time.Time `json:"created_at"`
}
