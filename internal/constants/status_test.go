package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitOrder(t *testing.T) {
	terminal := []string{STATUS_DONE, STATUS_DECLINED, STATUS_CANCEL_CC, STATUS_CANCEL_BRANCH}
	nonTerminal := []string{STATUS_PENDING, STATUS_ON_THE_WAY, STATUS_IN_PROGRESS, STATUS_IN_PROGRESS_SD}

	t.Run("из терминального статуса выхода нет", func(t *testing.T) {
		for _, from := range terminal {
			for _, to := range OrderStatuses {
				assert.False(t, CanTransitOrder(from, to), "%s -> %s должен быть запрещен", from, to)
			}
		}
	})

	t.Run("из нетерминального разрешен любой валидный статус", func(t *testing.T) {
		for _, from := range nonTerminal {
			for _, to := range OrderStatuses {
				assert.True(t, CanTransitOrder(from, to), "%s -> %s должен быть разрешен", from, to)
			}
		}
	})

	t.Run("переход в неизвестный статус запрещен", func(t *testing.T) {
		assert.False(t, CanTransitOrder(STATUS_PENDING, "WHATEVER"))
		assert.False(t, CanTransitOrder(STATUS_PENDING, ""))
	})
}

func TestIsTerminalOrderStatus(t *testing.T) {
	assert.True(t, IsTerminalOrderStatus(STATUS_DONE))
	assert.True(t, IsTerminalOrderStatus(STATUS_DECLINED))
	assert.False(t, IsTerminalOrderStatus(STATUS_PENDING))
	assert.False(t, IsTerminalOrderStatus(STATUS_IN_PROGRESS))
}

func TestCanTransitLeaflet(t *testing.T) {
	t.Run("завершенные листовочные заказы не меняются", func(t *testing.T) {
		for _, from := range []string{LEAFLET_STATUS_DONE, LEAFLET_STATUS_CANCELLED, LEAFLET_STATUS_DECLINED} {
			for _, to := range LeafletStatuses {
				assert.False(t, CanTransitLeaflet(from, to), "%s -> %s должен быть запрещен", from, to)
			}
		}
	})

	t.Run("незавершенные меняются в любой валидный статус", func(t *testing.T) {
		for _, from := range []string{LEAFLET_STATUS_IN_PROCESS, LEAFLET_STATUS_FORPAYMENT} {
			for _, to := range LeafletStatuses {
				assert.True(t, CanTransitLeaflet(from, to), "%s -> %s должен быть разрешен", from, to)
			}
		}
	})
}

func TestActorOrUnknown(t *testing.T) {
	assert.Equal(t, "Карина", ActorOrUnknown("Карина"))
	assert.Equal(t, UNKNOWN_ACTOR, ActorOrUnknown(""))
}
