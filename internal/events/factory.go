package events

import (
	"fmt"
	"strings"

	"github.com/relaygate/console/internal/config"
	"github.com/relaygate/console/internal/utils"
)

// New creates an event bus from configuration. Default is NATS when the
// type is not specified.
func New(cfg config.EventsConfig) (Bus, error) {
	busType := utils.BusType(strings.ToLower(cfg.Type))
	if busType == "" {
		busType = utils.BusTypeNATS
	}

	switch busType {
	case utils.BusTypeNATS:
		return NewNATSBus(cfg.URL)

	case utils.BusTypeRedis:
		return NewRedisBus(cfg)

	case utils.BusTypeKafka:
		return NewKafkaBus(cfg.KafkaBrokers, cfg.KafkaGroupID)

	case utils.BusTypeMemory:
		return NewMemoryBus(), nil

	default:
		return nil, fmt.Errorf("unsupported events bus type: %s (supported: nats, redis, kafka, memory)", busType)
	}
}
