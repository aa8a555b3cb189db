package constants

// Таблица переходов статусов.
// Правило для обеих сущностей одно: из терминального статуса выхода нет,
// из нетерминального разрешен переход в любой валидный статус (персонал
// должен иметь возможность исправить ошибочно выставленный статус).

var terminalOrderStatuses = map[string]bool{
	STATUS_DONE:          true,
	STATUS_DECLINED:      true,
	STATUS_CANCEL_CC:     true,
	STATUS_CANCEL_BRANCH: true,
}

var terminalLeafletStatuses = map[string]bool{
	LEAFLET_STATUS_DONE:      true,
	LEAFLET_STATUS_CANCELLED: true,
	LEAFLET_STATUS_DECLINED:  true,
}

// IsValidOrderStatus сообщает, входит ли статус в перечень статусов заказа.
func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminalOrderStatus сообщает, является ли статус заказа терминальным.
func IsTerminalOrderStatus(status string) bool {
	return terminalOrderStatuses[status]
}

// CanTransitOrder проверяет допустимость перехода статуса заказа.
func CanTransitOrder(from, to string) bool {
	if !IsValidOrderStatus(to) {
		return false
	}
	return !terminalOrderStatuses[from]
}

// IsValidLeafletStatus сообщает, входит ли статус в перечень статусов
// листовочного заказа.
func IsValidLeafletStatus(status string) bool {
	for _, s := range LeafletStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminalLeafletStatus сообщает, является ли статус листовочного заказа
// терминальным.
func IsTerminalLeafletStatus(status string) bool {
	return terminalLeafletStatuses[status]
}

// CanTransitLeaflet проверяет допустимость перехода статуса листовочного
// заказа.
func CanTransitLeaflet(from, to string) bool {
	if !IsValidLeafletStatus(to) {
		return false
	}
	return !terminalLeafletStatuses[from]
}
