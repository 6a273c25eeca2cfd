package eval

import (
	"math"
	"sort"
)

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

type function struct {
	arity int
	call  func(env *Env, args []float64) float64
}

func unary(f func(float64) float64) function {
	return function{arity: 1, call: func(_ *Env, a []float64) float64 { return f(a[0]) }}
}

// trig reads its argument in the current angle mode.
func trig(f func(float64) float64) function {
	return function{arity: 1, call: func(env *Env, a []float64) float64 {
		x := a[0]
		if env.Angle == Deg {
			x = x * math.Pi / 180
		}
		return f(x)
	}}
}

// inverseTrig returns its result in the current angle mode.
func inverseTrig(f func(float64) float64) function {
	return function{arity: 1, call: func(env *Env, a []float64) float64 {
		y := f(a[0])
		if env.Angle == Deg {
			y = y * 180 / math.Pi
		}
		return y
	}}
}

var functions = map[string]function{
	"sin":   trig(math.Sin),
	"cos":   trig(math.Cos),
	"tan":   trig(math.Tan),
	"sec":   trig(func(x float64) float64 { return 1 / math.Cos(x) }),
	"csc":   trig(func(x float64) float64 { return 1 / math.Sin(x) }),
	"cot":   trig(func(x float64) float64 { return 1 / math.Tan(x) }),
	"asin":  inverseTrig(math.Asin),
	"acos":  inverseTrig(math.Acos),
	"atan":  inverseTrig(math.Atan),
	"sinh":  unary(math.Sinh),
	"cosh":  unary(math.Cosh),
	"tanh":  unary(math.Tanh),
	"log":   unary(math.Log10),
	"ln":    unary(math.Log),
	"sqrt":  unary(math.Sqrt),
	"cbrt":  unary(math.Cbrt),
	"abs":   unary(math.Abs),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	// halves round toward +Inf: round(-2.5) is -2
	"round":     unary(func(x float64) float64 { return math.Floor(x + 0.5) }),
	"factorial": unary(Factorial),
	"Rand":      {arity: 0, call: func(env *Env, _ []float64) float64 { return env.random() }},
}

// Factorial is n! for non-negative integers and NaN otherwise. Values past
// 170 overflow to +Inf.
func Factorial(n float64) float64 {
	if n < 0 || n != math.Trunc(n) || math.IsNaN(n) {
		return math.NaN()
	}
	if n > 170 {
		return math.Inf(1)
	}
	out := 1.0
	for i := 2.0; i <= n; i++ {
		out *= i
	}
	return out
}

// Functions lists the callable names in sorted order.
func Functions() []string {
	out := make([]string, 0, len(functions))
	for name := range functions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
