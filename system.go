package main

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"unicode"

	"github.com/whyrusleeping/polysynth/synth"
)

// System is the console language: assignments, calls and numbers, bound to
// a synth controller.
type System struct {
	ctrl *synth.Controller
	out  io.Writer

	vals map[string]any
}

func (s *System) Set(k string, v any) {
	s.vals[k] = v
}

func NewSystem(ctrl *synth.Controller, out io.Writer) *System {
	s := &System{
		ctrl: ctrl,
		out:  out,
		vals: make(map[string]any),
	}

	s.Set("print", MakeFunc(func(i any) {
		fmt.Fprintln(s.out, i)
	}))

	s.Set("note", MakeFunc(func(note int64) float64 {
		return noteToFreq(note)
	}))

	s.Set("play", MakeFunc(func(freq float64) error {
		return ctrl.Play(freq)
	}))

	s.Set("stop", MakeFunc(func(freq float64) error {
		return ctrl.Stop(freq)
	}))

	s.Set("attack", MakeFunc(ctrl.SetAttack))
	s.Set("decay", MakeFunc(ctrl.SetDecay))
	s.Set("sustain", MakeFunc(ctrl.SetSustain))
	s.Set("release", MakeFunc(ctrl.SetRelease))
	s.Set("glide", MakeFunc(ctrl.SetGlide))
	s.Set("gain", MakeFunc(ctrl.SetGain))
	s.Set("reset", MakeFunc(ctrl.Reset))

	s.Set("voices", MakeFunc(func() int {
		return ctrl.ActiveVoices()
	}))

	return s
}

// Names lists every bound name, sorted.
func (s *System) Names() []string {
	var out []string
	for k := range s.vals {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type Function struct {
	fn reflect.Value
}

func MakeFunc(fn any) *Function {
	return &Function{
		fn: reflect.ValueOf(fn),
	}
}

func (f *Function) Call(args []any) (any, error) {
	return callFunc(f.fn, args)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func callFunc(rfv reflect.Value, args []any) (any, error) {
	t := rfv.Type()
	nargs := t.NumIn()
	if len(args) != nargs {
		return nil, fmt.Errorf("expected %d args, got %d", nargs, len(args))
	}

	var inargs []reflect.Value
	for i := 0; i < nargs; i++ {
		inval, err := argToType(args[i], t.In(i))
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}

		inargs = append(inargs, reflect.ValueOf(inval))
	}

	out := rfv.Call(inargs)

	// a trailing error result is returned as the error
	if n := len(out); n > 0 && t.Out(n-1) == errorType {
		if err, _ := out[n-1].Interface().(error); err != nil {
			return nil, err
		}
		out = out[:n-1]
	}

	if len(out) == 0 {
		return nil, nil
	}

	return out[0].Interface(), nil
}

func argToType(arg any, t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.Int:
		switch arg := arg.(type) {
		case int:
			return arg, nil
		default:
			return nil, fmt.Errorf("unsupported int arg type: %T", arg)
		}
	case reflect.Int64:
		switch arg := arg.(type) {
		case int:
			return int64(arg), nil
		case int64:
			return arg, nil
		default:
			return nil, fmt.Errorf("unsupported int64 arg type: %T", arg)
		}
	case reflect.Float64:
		switch arg := arg.(type) {
		case float64:
			return arg, nil
		case int:
			return float64(arg), nil
		default:
			return nil, fmt.Errorf("unsupported float64 arg type: %T", arg)
		}
	case reflect.Interface:
		if arg == nil {
			return nil, fmt.Errorf("nil argument")
		}
		return arg, nil
	default:
		return nil, fmt.Errorf("requested type unknown: %s", t)
	}
}

func (s *System) ProcessCmd(cmdl string) error {
	tokens, err := tokenize(cmdl)
	if err != nil {
		return err
	}

	return s.processCmd(tokens)
}

func (s *System) processCmd(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	if len(tokens) == 1 {
		val, err := s.ResolveStatement(tokens)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, val)
		return nil
	}

	if len(tokens) > 2 && tokens[1] == "=" {
		// assignment
		val, err := s.ResolveStatement(tokens[2:])
		if err != nil {
			return err
		}

		s.Set(tokens[0], val)
		return nil
	}

	if vf, ok := s.Lookup(tokens[0]); ok {
		if _, fok := vf.(Callable); fok {
			val, err := s.ResolveStatement(tokens)
			if err != nil {
				return err
			}
			if val != nil {
				fmt.Fprintln(s.out, val)
			}
			return nil
		}
	}

	return fmt.Errorf("unknown command type (%q)", tokens)
}

func (s *System) Lookup(val string) (any, bool) {
	ov, ok := s.vals[val]
	return ov, ok
}

func (s *System) ResolveStatement(tokens []string) (any, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("cannot parse empty statement")
	}

	if len(tokens) == 1 {
		// either a variable or an immediate value
		if val, err := strconv.Atoi(tokens[0]); err == nil {
			return val, nil
		}
		if val, err := strconv.ParseFloat(tokens[0], 64); err == nil {
			return val, nil
		}

		vbl, ok := s.Lookup(tokens[0])
		if !ok {
			return nil, fmt.Errorf("unknown reference: %q", tokens[0])
		}

		return vbl, nil
	}

	v, ok := s.Lookup(tokens[0])
	if ok {
		if f, fok := v.(Callable); fok {
			if tokens[1] != "(" {
				return nil, fmt.Errorf("call %q missing open paren", tokens[0])
			}

			args, end, err := scanTuple("(", ")", tokens[1:])
			if err != nil {
				return nil, fmt.Errorf("collecting args for function call: %w", err)
			}
			if end+2 != len(tokens) {
				return nil, fmt.Errorf("unexpected %q after call to %q", tokens[end+2], tokens[0])
			}

			var params []any
			for i, argset := range args {
				v, err := s.ResolveStatement(argset)
				if err != nil {
					return nil, fmt.Errorf("parsing arg %d: %w", i, err)
				}
				params = append(params, v)
			}

			res, err := f.Call(params)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", tokens[0], err)
			}
			return res, nil
		}
	}

	return nil, fmt.Errorf("invalid statement (unknown symbol %q)", tokens[0])
}

type Callable interface {
	Call(args []any) (any, error)
}

// scans tokens of the form ( a(b), 123, f(d(4)))
// returns [][]string{ ["a", "(", "b", ")"], ["123"], [ "f", "(", "d", "(", "4", ")", ")" ] }
func scanTuple(beg, end string, tokens []string) ([][]string, int, error) {
	if tokens[0] != beg {
		return nil, 0, fmt.Errorf("expected %q at beginning of sequence", beg)
	}

	var out [][]string

	var cur int = 1
	var term []string
	for i := 1; i < len(tokens); i++ {
		if tokens[i] == "(" {
			term = append(term, ")")
			continue
		}

		if len(term) > 0 {
			if tokens[i] == term[len(term)-1] {
				term = term[:len(term)-1]
			}
			continue
		}

		if tokens[i] == "," {
			if i-cur == 0 {
				return nil, 0, fmt.Errorf("empty argument at index %d", len(out))
			}

			out = append(out, tokens[cur:i])
			cur = i + 1
		}

		if tokens[i] == end {
			if i > cur {
				out = append(out, tokens[cur:i])
			}
			return out, i, nil
		}
	}

	return nil, 0, fmt.Errorf("missing close sigil")
}

func tokenize(s string) ([]string, error) {
	var out []string
	var wordstart int
	inword := false
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		switch {
		case unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_':
			if !inword {
				inword = true
				wordstart = i
			}
		case runes[i] == '.' && (inword || i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			// decimal point inside a number
			if !inword {
				inword = true
				wordstart = i
			}
		case runes[i] == '-' && !inword && i+1 < len(runes) && (unicode.IsDigit(runes[i+1]) || runes[i+1] == '.'):
			inword = true
			wordstart = i
		case unicode.IsSpace(runes[i]):
			if inword {
				out = append(out, string(runes[wordstart:i]))
				inword = false
			}
		case runes[i] == '=',
			runes[i] == ',',
			runes[i] == '(',
			runes[i] == ')':
			if inword {
				out = append(out, string(runes[wordstart:i]))
				inword = false
			}
			out = append(out, string(runes[i]))
		default:
			return nil, fmt.Errorf("invalid character at index %d: %q", i, runes[i])
		}
	}
	if inword {
		out = append(out, string(runes[wordstart:]))
	}

	return out, nil
}
