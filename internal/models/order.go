package models

import "time"

// Order — заказ на выезд мастера к клиенту.
// Инвариант: date_done заполнено тогда и только тогда, когда статус DONE.
// Финансовые поля имеют смысл только для завершенных заказов.
type Order struct {
	ID             int64      `json:"id"`
	FullName       string     `json:"full_name"`
	Phone          string     `json:"phone"`
	Address        string     `json:"address"`
	Status         string     `json:"status"`
	ArriveDate     time.Time  `json:"arrive_date"`
	VisitType      string     `json:"visit_type"`
	CityID         int64      `json:"city_id"`
	LeafletID      *int64     `json:"leaflet_id,omitempty"`
	EquipmentType  string     `json:"equipment_type"`
	Received       *float64   `json:"received,omitempty"`
	Outlay         *float64   `json:"outlay,omitempty"`
	ReceivedWorker *float64   `json:"received_worker,omitempty"`
	MasterID       *int64     `json:"master_id,omitempty"`
	IsNotificated  bool       `json:"is_notificated"`
	Documents      []Document `json:"documents,omitempty"`
	DateCreated    time.Time  `json:"date_created"`
	DateDone       *time.Time `json:"date_done,omitempty"`
}

// OrderInput — входные данные для создания заказа.
type OrderInput struct {
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	ArriveDate    string `json:"arrive_date"`
	VisitType     string `json:"visit_type"`
	CityID        int64  `json:"city_id"`
	LeafletID     *int64 `json:"leaflet_id"`
	EquipmentType string `json:"equipment_type"`
}

// Document — загруженный файл, привязанный к заказу.
type Document struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"order_id"`
	FilePath   string    `json:"file_path"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Worker — мастер, назначаемый на заказы.
type Worker struct {
	ID               int64  `json:"id"`
	FullName         string `json:"full_name"`
	Phone            string `json:"phone"`
	TelegramUsername string `json:"telegram_username,omitempty"`
}
