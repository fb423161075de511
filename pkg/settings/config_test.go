package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     any
		wantErr bool
	}{
		{"valid_queue", Queue{Capacity: 16}, false},
		{"zero_capacity", Queue{Capacity: 0}, true},
		{"negative_capacity", Queue{Capacity: -1}, true},
		{
			"valid_dispatch",
			Dispatch{Queue: Queue{Capacity: 8}, Workers: 2, BatchSize: 4},
			false,
		},
		{
			"zero_workers",
			Dispatch{Queue: Queue{Capacity: 8}, Workers: 0, BatchSize: 4},
			true,
		},
		{"kafka_no_brokers", Kafka{}, true},
		{"kafka_with_brokers", Kafka{Brokers: []string{"localhost:9092"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
