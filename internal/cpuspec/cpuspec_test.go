package cpuspec

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerformanceCores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		brand string
		want  int
	}{
		{"12th Gen Intel(R) Core(TM) i7-12700K", 8},
		{"13th Gen Intel(R) Core(TM) i5-13400F", 6},
		{"Intel(R) Core(TM) Ultra 5 225", 4},
		{"Intel(R) Core(TM) Ultra 7 Processor 265", 8},
		{"Apple M2 Max", 12},
		{"Apple M1", 4},
		{"AMD Ryzen 9 7950X 16-Core Processor", 0},
		{"Intel(R) Core(TM) i7-9700K CPU @ 3.60GHz", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.brand, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, PerformanceCores(tt.brand))
		})
	}
}

func TestThreadCount(t *testing.T) {
	t.Parallel()

	available := runtime.NumCPU()

	assert.Equal(t, 3, Spec{LogicalCores: 16}.ThreadCount(3), "explicit request wins")
	assert.Equal(t, min(2, available), Spec{LogicalCores: 16, PerformanceCores: 2}.ThreadCount(0))
	assert.Equal(t, available, Spec{LogicalCores: available + 64}.ThreadCount(0))
	assert.Equal(t, available, Spec{}.ThreadCount(0))
	assert.Positive(t, Detect().ThreadCount(0))
}
