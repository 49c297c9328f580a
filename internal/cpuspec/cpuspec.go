// Package cpuspec picks the interpreter thread count for the host CPU.
package cpuspec

import (
	"regexp"
	"runtime"
	"strings"

	"github.com/klauspost/cpuid/v2"
)

// Spec describes the host CPU.
type Spec struct {
	BrandName        string `json:"brand"`
	LogicalCores     int    `json:"logical_cores"`
	PerformanceCores int    `json:"performance_cores,omitempty"`
}

var (
	intelCoreRegex  = regexp.MustCompile(`intel.*core.*i[3579]-(\d{5})`)
	intelUltraRegex = regexp.MustCompile(`intel.*core.*ultra\s+[579]\s+(?:processor\s+)?(\d{3})`)
	appleRegex      = regexp.MustCompile(`apple\s+(m[1-4](?:\s+(?:pro|max|ultra))?)`)
)

// Performance core counts for hybrid CPUs, keyed by the model number or chip
// name captured from the brand string. Variants share the base model count.
var performanceCores = map[string]int{
	"12900": 8, "12700": 8, "12600": 6, "12400": 6, "12100": 4,
	"13900": 8, "13700": 8, "13600": 6, "13500": 6, "13400": 6, "13100": 4,
	"14900": 8, "14700": 8, "14600": 6, "14400": 6, "14100": 4,
	"285": 8, "265": 8, "255": 8, "235": 6, "225": 4,
	"m1": 4, "m1 pro": 8, "m1 max": 8, "m1 ultra": 16,
	"m2": 4, "m2 pro": 8, "m2 max": 12, "m2 ultra": 24,
	"m3": 4, "m3 pro": 8, "m3 max": 12, "m3 ultra": 24,
	"m4": 6, "m4 pro": 8, "m4 max": 12,
}

// Detect returns the specification of the host CPU.
func Detect() Spec {
	logical := cpuid.CPU.LogicalCores
	if logical <= 0 {
		logical = runtime.NumCPU()
	}
	return Spec{
		BrandName:        cpuid.CPU.BrandName,
		LogicalCores:     logical,
		PerformanceCores: PerformanceCores(cpuid.CPU.BrandName),
	}
}

// PerformanceCores returns the number of performance cores of a hybrid CPU
// identified by brand, or 0 when the CPU is unknown or not hybrid.
func PerformanceCores(brand string) int {
	brand = strings.ToLower(brand)
	for _, re := range []*regexp.Regexp{intelCoreRegex, intelUltraRegex, appleRegex} {
		if m := re.FindStringSubmatch(brand); len(m) > 1 {
			key := strings.Join(strings.Fields(m[1]), " ")
			return performanceCores[key]
		}
	}
	return 0
}

// ThreadCount returns requested when positive. Otherwise it returns the
// performance core count on hybrid CPUs and the logical core count elsewhere,
// never more than the CPUs available to the process.
func (s Spec) ThreadCount(requested int) int {
	if requested > 0 {
		return requested
	}
	available := runtime.NumCPU()
	threads := s.LogicalCores
	if s.PerformanceCores > 0 {
		threads = s.PerformanceCores
	}
	if threads <= 0 || threads > available {
		threads = available
	}
	return threads
}
