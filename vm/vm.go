// Package vm executes Ember bytecode on a stack machine. The VM borrows
// the chunk it runs and takes ownership of the compiler's heap-object
// list; Free releases every object on that list when the VM is torn
// down.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"ember/compiler"
	"ember/value"
)

// Result is the outcome of interpreting a chunk.
type Result int

const (
	ResultOk Result = iota
	ResultCompileError
	ResultRuntimeError
)

// operator symbols for runtime error messages, keyed by opcode.
var symbols = map[compiler.Opcode]string{
	compiler.OpAdd:     "+",
	compiler.OpSub:     "-",
	compiler.OpMul:     "*",
	compiler.OpDiv:     "/",
	compiler.OpGreater: ">",
	compiler.OpLess:    "<",
}

// VM is the bytecode interpreter.
type VM struct {
	chunk *compiler.Chunk
	ip    int

	stack    [StackMax]value.Value
	stackTop int

	// Head of the heap-object list, transferred from the compiler at
	// construction. The VM owns it from then on.
	objects value.Object

	out    io.Writer
	errOut io.Writer

	trace bool
	log   *logrus.Logger
}

// New creates a VM for one chunk. objects is the head of the compiler's
// heap-object list; pass the result of Compiler.TakeObjects so ownership
// moves along with it.
func New(chunk *compiler.Chunk, objects value.Object) *VM {
	vm := &VM{
		chunk:    chunk,
		stackTop: 1,
		objects:  objects,
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
	// Slot 0 is reserved; the whole stack starts out as nil values.
	for i := range vm.stack {
		vm.stack[i] = value.NewNil()
	}
	return vm
}

// SetOutput redirects the VM's standard and error output. Tests use this
// to observe what a program prints.
func (vm *VM) SetOutput(out, errOut io.Writer) {
	vm.out = out
	vm.errOut = errOut
}

// EnableTrace logs every executed instruction to the error stream.
func (vm *VM) EnableTrace() {
	vm.trace = true
	vm.log = logrus.New()
	vm.log.SetOutput(vm.errOut)
	vm.log.SetLevel(logrus.DebugLevel)
}

// Run drives the fetch-decode-execute loop until RETURN or an error.
func (vm *VM) Run() Result {
	for {
		if vm.ip >= len(vm.chunk.Code) {
			return vm.runtimeError("Reached the end of the chunk without RETURN.")
		}

		op := compiler.Opcode(vm.readByte())
		if vm.trace {
			vm.traceInstruction(op)
		}

		switch op {
		case compiler.OpReturn:
			fmt.Fprintln(vm.out, vm.pop())
			return ResultOk

		case compiler.OpConstant:
			vm.push(vm.readConstant())

		case compiler.OpNil:
			vm.push(value.NewNil())
		case compiler.OpTrue:
			vm.push(value.NewBool(true))
		case compiler.OpFalse:
			vm.push(value.NewBool(false))

		case compiler.OpNegate:
			if !vm.peek(1).IsNumber() {
				return vm.runtimeError("Unary `-` operand must be a number.")
			}
			vm.push(value.NewNumber(-vm.pop().AsNumber()))

		case compiler.OpNot:
			vm.push(value.NewBool(vm.pop().IsFalsey()))

		case compiler.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.NewBool(value.Equal(a, b)))

		case compiler.OpAdd, compiler.OpSub, compiler.OpMul, compiler.OpDiv,
			compiler.OpGreater, compiler.OpLess:
			if res, ok := vm.binaryOp(op); !ok {
				return res
			}

		default:
			return ResultRuntimeError
		}
	}
}

// binaryOp executes an arithmetic or ordering opcode over the top two
// stack slots. Both operands must be numbers; division by zero follows
// IEEE-754 float semantics.
func (vm *VM) binaryOp(op compiler.Opcode) (Result, bool) {
	if !vm.peek(1).IsNumber() || !vm.peek(2).IsNumber() {
		return vm.runtimeError(fmt.Sprintf("`%s` operands must be numbers.", symbols[op])), false
	}

	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()

	switch op {
	case compiler.OpAdd:
		vm.push(value.NewNumber(a + b))
	case compiler.OpSub:
		vm.push(value.NewNumber(a - b))
	case compiler.OpMul:
		vm.push(value.NewNumber(a * b))
	case compiler.OpDiv:
		vm.push(value.NewNumber(a / b))
	case compiler.OpGreater:
		vm.push(value.NewBool(a > b))
	case compiler.OpLess:
		vm.push(value.NewBool(a < b))
	}
	return ResultOk, true
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readConstant() value.Value {
	index := vm.readByte()
	return vm.chunk.Constants[index]
}

// runtimeError prints `[line L] error: M` on the error stream and
// terminates execution. The line index is clamped so a malformed chunk
// cannot panic the error path itself.
func (vm *VM) runtimeError(msg string) Result {
	instruction := len(vm.chunk.Code) - vm.ip
	if instruction >= len(vm.chunk.Lines) {
		instruction = len(vm.chunk.Lines) - 1
	}
	var line uint32
	if instruction >= 0 {
		line = vm.chunk.Lines[instruction]
	}
	fmt.Fprintf(vm.errOut, "[line %d] error: %s\n", line, msg)
	return ResultRuntimeError
}

func (vm *VM) traceInstruction(op compiler.Opcode) {
	name := "UNKNOWN"
	if def, err := compiler.Lookup(op); err == nil {
		name = def.Name
	}
	vm.log.WithFields(logrus.Fields{
		"ip":    vm.ip - 1,
		"op":    name,
		"depth": vm.stackTop - 1,
	}).Debug("execute")
}

// Free releases every heap object the VM owns. Call it exactly once
// when the VM is torn down.
func (vm *VM) Free() {
	value.FreeObjects(vm.objects)
	vm.objects = nil
}
