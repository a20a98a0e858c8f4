package analysis

import "math"

type Summary struct {
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
	Final float64
}

func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}

	s := Summary{Min: series[0], Max: series[0], Final: series[len(series)-1]}
	for _, v := range series {
		s.Mean += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean /= float64(len(series))

	for _, v := range series {
		d := v - s.Mean
		s.Std += d * d
	}
	s.Std = math.Sqrt(s.Std / float64(len(series)))
	return s
}

// SettleTick returns the first index after which every sample stays within
// tol (relative to the final value's magnitude, or absolute below 1) of the
// final sample. An empty series settles at 0.
func SettleTick(series []float64, tol float64) int {
	if len(series) == 0 {
		return 0
	}
	final := series[len(series)-1]
	bound := tol * math.Max(1, math.Abs(final))

	settle := len(series) - 1
	for i := len(series) - 1; i >= 0; i-- {
		if math.Abs(series[i]-final) > bound {
			break
		}
		settle = i
	}
	return settle
}
