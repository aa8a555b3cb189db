package constants

// Статусы заказов на выезд мастера.
const (
	STATUS_PENDING        = "PENDING"
	STATUS_ON_THE_WAY     = "ON_THE_WAY"
	STATUS_IN_PROGRESS    = "IN_PROGRESS"
	STATUS_IN_PROGRESS_SD = "IN_PROGRESS_SD"
	STATUS_DECLINED       = "DECLINED"
	STATUS_CANCEL_CC      = "CANCEL_CC"
	STATUS_CANCEL_BRANCH  = "CANCEL_BRANCH"
	STATUS_DONE           = "DONE"
)

// OrderStatuses — полный перечень статусов заказа в фиксированном порядке.
// Используется статистикой, чтобы отсутствующие статусы отдавались как 0.
var OrderStatuses = []string{
	STATUS_PENDING,
	STATUS_ON_THE_WAY,
	STATUS_IN_PROGRESS,
	STATUS_IN_PROGRESS_SD,
	STATUS_DECLINED,
	STATUS_CANCEL_CC,
	STATUS_CANCEL_BRANCH,
	STATUS_DONE,
}

// Статусы листовочных заказов (рекламные кампании).
const (
	LEAFLET_STATUS_IN_PROCESS = "IN_PROCESS"
	LEAFLET_STATUS_FORPAYMENT = "FORPAYMENT"
	LEAFLET_STATUS_DONE       = "DONE"
	LEAFLET_STATUS_CANCELLED  = "CANCELLED"
	LEAFLET_STATUS_DECLINED   = "DECLINED"
)

// LeafletStatuses — полный перечень статусов листовочного заказа.
var LeafletStatuses = []string{
	LEAFLET_STATUS_IN_PROCESS,
	LEAFLET_STATUS_FORPAYMENT,
	LEAFLET_STATUS_DONE,
	LEAFLET_STATUS_CANCELLED,
	LEAFLET_STATUS_DECLINED,
}

// Роли пользователей.
const (
	ROLE_ADMIN       = "admin"
	ROLE_MANAGER     = "manager"
	ROLE_ADVERTISING = "advertising"
)

// Зоны видимости (обязательны для всех ролей, кроме advertising).
const (
	SCOPE_MINIMAL     = "MINIMAL"
	SCOPE_PARTIAL     = "PARTIAL"
	SCOPE_ADVERTISING = "ADVERTISING"
)

// Типы записей журнала действий.
const (
	LOG_TYPE_ORDER   = "order"
	LOG_TYPE_LEAFLET = "leaflet"
	LOG_TYPE_USER    = "user"
	LOG_TYPE_WORKER  = "worker"
)

// UNKNOWN_ACTOR — явный маркер для действий, автора которых не удалось
// определить. Запись в журнал с пустым автором недопустима: потребители
// журнала должны отличать "имя не определено" от "имя пустое".
const UNKNOWN_ACTOR = "Неизвестный"

// ActorOrUnknown возвращает имя автора действия либо маркер UNKNOWN_ACTOR,
// если имя не передано.
func ActorOrUnknown(actor string) string {
	if actor == "" {
		return UNKNOWN_ACTOR
	}
	return actor
}
