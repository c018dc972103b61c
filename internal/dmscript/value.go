package dmscript

import (
	"fmt"
	"strconv"
)

// ValueType is the type of a value produced by evaluation.
type ValueType int

const (
	Null ValueType = iota
	Bool
	Int
	Float
	String
	Array
	Matrix
	Object
	Function
)

func (vt ValueType) String() string {
	switch vt {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Int:
		return "integer"
	case Float:
		return "float"
	case String:
		return "string"
	case Array:
		return "array"
	case Matrix:
		return "matrix"
	case Object:
		return "object"
	case Function:
		return "function"
	default:
		return fmt.Sprintf("ValueType(%d)", int(vt))
	}
}

// NativeFunc is the handler of a function implemented by the host rather than
// in script source.
type NativeFunc func(args []Value) (Value, error)

// FuncValue is the descriptor of a callable function. Either Native is set,
// for host functions, or Body is set, for functions declared in script
// source. A scripted function keeps the scope its declaration was evaluated
// in; a call activation hangs off that scope so the function sees the names
// visible at its declaration site.
type FuncValue struct {
	Name   string
	Params []string
	Body   Node
	Env    *Scope

	Native NativeFunc

	// Arity is the required argument count for a native function. Scripted
	// functions take their arity from Params.
	Arity int
}

// Value is a single value produced by evaluating script source. Only the
// null, boolean, numeric, and string variants can be written as literals;
// the remaining variants exist so primitive results can be carried through
// the evaluator.
//
// Only two of the fields in a Value are meaningful: vType and the payload
// matching it.
type Value struct {
	vType ValueType
	b     bool
	i     int64
	f     float64
	s     string

	arr        []Value
	rows, cols int
	fn         *FuncValue
	obj        interface{}
}

// NewNull returns the null Value.
func NewNull() Value {
	return Value{vType: Null}
}

// NewBool returns a Value of Bool type with the given truth value.
func NewBool(b bool) Value {
	return Value{vType: Bool, b: b}
}

// NewInt returns a Value of Int type with the given value.
func NewInt(i int64) Value {
	return Value{vType: Int, i: i}
}

// NewFloat returns a Value of Float type with the given value.
func NewFloat(f float64) Value {
	return Value{vType: Float, f: f}
}

// NewString returns a Value of String type whose text is the given string.
func NewString(s string) Value {
	return Value{vType: String, s: s}
}

// NewArray returns a Value of Array type holding the given elements.
func NewArray(elements []Value) Value {
	return Value{vType: Array, arr: elements}
}

// NewMatrix returns a Value of Matrix type with the given dimensions. The
// cells are stored row-major in elements.
func NewMatrix(rows, cols int, elements []Value) Value {
	return Value{vType: Matrix, rows: rows, cols: cols, arr: elements}
}

// NewObject returns a Value of Object type wrapping the given opaque handle.
func NewObject(handle interface{}) Value {
	return Value{vType: Object, obj: handle}
}

// NewFunc returns a Value of Function type with the given descriptor.
func NewFunc(fn *FuncValue) Value {
	return Value{vType: Function, fn: fn}
}

// Type returns the type of the Value.
func (v Value) Type() ValueType {
	return v.vType
}

// IsNumber returns whether the value is one of the numeric variants.
func (v Value) IsNumber() bool {
	return v.vType == Int || v.vType == Float
}

// Bool returns the payload of a Bool value. It panics for other variants.
func (v Value) Bool() bool {
	if v.vType != Bool {
		panic(fmt.Sprintf("Bool() called on %s value", v.vType))
	}
	return v.b
}

// Int returns the payload of an Int value. It panics for other variants.
func (v Value) Int() int64 {
	if v.vType != Int {
		panic(fmt.Sprintf("Int() called on %s value", v.vType))
	}
	return v.i
}

// Float returns the payload of a Float value. It panics for other variants.
func (v Value) Float() float64 {
	if v.vType != Float {
		panic(fmt.Sprintf("Float() called on %s value", v.vType))
	}
	return v.f
}

// Str returns the payload of a String value. It panics for other variants.
func (v Value) Str() string {
	if v.vType != String {
		panic(fmt.Sprintf("Str() called on %s value", v.vType))
	}
	return v.s
}

// Func returns the descriptor of a Function value. It panics for other
// variants.
func (v Value) Func() *FuncValue {
	if v.vType != Function {
		panic(fmt.Sprintf("Func() called on %s value", v.vType))
	}
	return v.fn
}

// Num returns the value as a float64 for use in arithmetic. Int and Float
// give their numeric value; Bool gives 0 or 1. Callers must check
// CoercesToNumber first; Num panics for any other variant.
func (v Value) Num() float64 {
	switch v.vType {
	case Int:
		return float64(v.i)
	case Float:
		return v.f
	case Bool:
		if v.b {
			return 1
		}
		return 0
	default:
		panic(fmt.Sprintf("Num() called on %s value", v.vType))
	}
}

// CoercesToNumber returns whether the value may be used as an operand of an
// arithmetic operator: the numeric variants, plus Bool which coerces to 0 or
// 1.
func (v Value) CoercesToNumber() bool {
	return v.IsNumber() || v.vType == Bool
}

// Truthy returns the value coerced to a boolean: false for false, null, zero
// of either numeric variant, and the empty string; true for everything else.
func (v Value) Truthy() bool {
	switch v.vType {
	case Null:
		return false
	case Bool:
		return v.b
	case Int:
		return v.i != 0
	case Float:
		return v.f != 0
	case String:
		return v.s != ""
	default:
		return true
	}
}

// Equal returns whether the value is structurally equal to another. Values of
// different variants are never equal, with one exception: the two numeric
// variants compare by numeric value, so Int 1 equals Float 1.0. Bool does
// not coerce; 1 == true is false.
func (v Value) Equal(o any) bool {
	other, ok := o.(Value)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*Value)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if v.IsNumber() && other.IsNumber() {
		return v.Num() == other.Num()
	}

	if v.vType != other.vType {
		return false
	}

	switch v.vType {
	case Null:
		return true
	case Bool:
		return v.b == other.b
	case String:
		return v.s == other.s
	case Array:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case Matrix:
		if v.rows != other.rows || v.cols != other.cols {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case Function:
		return v.fn == other.fn
	case Object:
		return v.obj == other.obj
	default:
		panic("unrecognized Value type")
	}
}

// Display returns the canonical text form of the value used by the REPL to
// show results. Floats render with six fractional digits, untrimmed; strings
// render verbatim; the variants with no literal syntax render as a bracketed
// placeholder.
func (v Value) Display() string {
	switch v.vType {
	case Null:
		return "null"
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'f', 6, 64)
	case String:
		return v.s
	case Array:
		return fmt.Sprintf("[array of %d]", len(v.arr))
	case Matrix:
		return fmt.Sprintf("[matrix %dx%d]", v.rows, v.cols)
	case Object:
		return "[object]"
	case Function:
		return fmt.Sprintf("[function %s]", v.fn.Name)
	default:
		panic("unrecognized Value type")
	}
}

// String returns a debug form of the value that includes its type, suitable
// for tree dumps and test failure output.
func (v Value) String() string {
	switch v.vType {
	case Null:
		return "null"
	case Bool:
		return fmt.Sprintf("%t", v.b)
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case String:
		return fmt.Sprintf("%q", v.s)
	default:
		return v.Display()
	}
}
