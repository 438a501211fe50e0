// Package targets defines the platforms, binding languages and LLVM emission
// formats understood by mlwrap, along with the per-target parameters handed to
// the LLVM tools and the interface generator.
package targets

import (
	"runtime"
	"strconv"
)

// Generate parsing/printing boilerplate for the enums below.
//go:generate go tool enumer -type=Target -transform=lower -text targets.go
//go:generate go tool enumer -type=Language -transform=lower -text targets.go
//go:generate go tool enumer -type=EmitFormat -transform=lower -text targets.go

// Target is a platform the wrapped model project can be built for.
type Target int

const (
	// Host is the architecture of the machine running mlwrap.
	Host Target = iota

	// Pi0 is the Raspberry Pi Zero (32-bit ARMv6).
	Pi0

	// Pi3 is the Raspberry Pi 3 running a 32-bit OS.
	Pi3

	// Pi3_64 is the Raspberry Pi 3 running a 64-bit OS.
	Pi3_64

	// OrangePi0 is the Orange Pi Zero (32-bit ARMv7).
	OrangePi0

	// Aarch64 is generic arm64 Linux, e.g. Qualcomm DragonBoards.
	Aarch64
)

// Language is the binding language of the generated project.
type Language int

const (
	// Python generates a SWIG-based Python extension module.
	Python Language = iota

	// Cpp generates a plain C++ header, no interface generator involved.
	Cpp
)

// EmitFormat is the code format the model compiler is asked to emit.
type EmitFormat int

const (
	IR EmitFormat = iota // LLVM textual IR (.ll)
	BC                   // LLVM bitcode (.bc)
	Asm                  // assembly (.s)
	Obj                  // object code (.o)
)

// Ext returns the file extension (without dot) the model compiler uses for
// files emitted in this format.
func (f EmitFormat) Ext() string {
	switch f {
	case IR:
		return "ll"
	case Asm:
		return "s"
	case Obj:
		return "o"
	default:
		return "bc"
	}
}

// ObjExt returns the object file extension (without dot) for the target.
// All supported targets use ELF-style "o" objects.
func (t Target) ObjExt() string {
	return "o"
}

// CodeGen holds the llc code-generation parameters for a target.
// Zero values mean llc picks its own default (used for Host).
type CodeGen struct {
	Triple string
	CPU    string
	Attrs  string
}

var codeGenByTarget = map[Target]CodeGen{
	Pi0:       {Triple: "arm-linux-gnueabihf", CPU: "arm1176jzf-s", Attrs: "+vfp2"},
	Pi3:       {Triple: "armv7-linux-gnueabihf", CPU: "cortex-a53", Attrs: "+neon"},
	OrangePi0: {Triple: "armv7-linux-gnueabihf", CPU: "cortex-a7", Attrs: "+neon"},
	Pi3_64:    {Triple: "aarch64-linux-gnu", CPU: "cortex-a53"},
	Aarch64:   {Triple: "aarch64-linux-gnu"},
}

// CodeGen returns the llc code-generation parameters for the target.
func (t Target) CodeGen() CodeGen {
	return codeGenByTarget[t]
}

// Is64Bit reports whether the target uses 64-bit pointers.
// For Host it reflects the machine running mlwrap.
func (t Target) Is64Bit() bool {
	switch t {
	case Pi0, Pi3, OrangePi0:
		return false
	case Pi3_64, Aarch64:
		return true
	default:
		return strconv.IntSize == 64
	}
}

// SwigDefines returns the preprocessor defines the interface generator needs
// for the target: its OS family and its word size.
// SWIG expects SWIGWORDSIZE32 on Windows regardless of bitness, because
// INT_MAX == LONG_MAX there.
func (t Target) SwigDefines() []string {
	if t != Host {
		if t.Is64Bit() {
			return []string{"-DSWIGWORDSIZE64", "-DLINUX"}
		}
		return []string{"-DSWIGWORDSIZE32", "-DLINUX"}
	}
	switch runtime.GOOS {
	case "windows":
		return []string{"-DWIN32", "-DSWIGWORDSIZE32"}
	case "darwin":
		return []string{"-DAPPLE"}
	default:
		if t.Is64Bit() {
			return []string{"-DLINUX", "-DSWIGWORDSIZE64"}
		}
		return []string{"-DLINUX", "-DSWIGWORDSIZE32"}
	}
}
