package models

import "time"

// City — справочник городов. OrderCount — производный счетчик для дашборда.
type City struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	OrderCount int    `json:"order_count"`
}

// Leaflet — рекламная листовка (кампания). Value — стоимость одной
// разнесенной листовки, из нее считается прибыль листовочного заказа.
type Leaflet struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	OrderCount int     `json:"order_count"`
}

// Distributor — разносчик листовок (не путать с мастером).
type Distributor struct {
	ID        int64                 `json:"id"`
	FullName  string                `json:"full_name"`
	Phone     string                `json:"phone"`
	Telegram  string                `json:"telegram,omitempty"`
	InvitedBy string                `json:"invited_by,omitempty"`
	Documents []DistributorDocument `json:"documents,omitempty"`
}

// DistributorDocument — документ разносчика (удостоверение, подтверждение).
type DistributorDocument struct {
	ID            int64     `json:"id"`
	DistributorID int64     `json:"distributor_id"`
	FilePath      string    `json:"file_path"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// LeafletOrder — заказ на разноску листовок.
// Инвариант завершения: distributed + returned <= quantity.
type LeafletOrder struct {
	ID            int64      `json:"id"`
	CityID        int64      `json:"city_id"`
	LeafletID     int64      `json:"leaflet_id"`
	DistributorID int64      `json:"distributor_id"`
	Quantity      int        `json:"quantity"`
	Status        string     `json:"status"`
	Distributed   int        `json:"distributed"`
	Returned      int        `json:"returned"`
	Profit        float64    `json:"profit"`
	PaymentPhoto  string     `json:"payment_photo,omitempty"`
	WhoDid        string     `json:"who_did"`
	DateCreated   time.Time  `json:"date_created"`
	DateDone      *time.Time `json:"date_done,omitempty"`
}

// LeafletOrderInput — входные данные для создания листовочного заказа.
type LeafletOrderInput struct {
	CityID        int64 `json:"city_id"`
	LeafletID     int64 `json:"leaflet_id"`
	DistributorID int64 `json:"distributor_id"`
	Quantity      int   `json:"quantity"`
}
