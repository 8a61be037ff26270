package flagx

import (
	"reflect"
	"testing"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", "http://host:8000", "-x", "ignored"},
			allowed: []string{"-a"},
			want:    []string{"-a", "http://host:8000"},
		},
		{
			name:    "equals form",
			args:    []string{"--addr=http://host:8000", "-t=15"},
			allowed: []string{"--addr"},
			want:    []string{"--addr=http://host:8000"},
		},
		{
			name:    "flag without value before another flag",
			args:    []string{"-a", "-t", "15"},
			allowed: []string{"-a"},
			want:    []string{"-a"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "x", "-t", "15"},
			allowed: []string{"-q"},
			want:    []string{},
		},
		{
			name:    "empty args",
			args:    nil,
			allowed: []string{"-a"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}
