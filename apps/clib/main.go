// Command clib builds the simple default generator API as a C shared
// library:
//
//	go build -buildmode=c-shared -o libsprng.so ./apps/clib
package main

import "C"
import (
	"os"
	"unsafe"

	"github.com/tutils/sprng"
	"github.com/tutils/sprng/cmd"
	"github.com/tutils/sprng/simple"
)

//export RunCmd
func RunCmd(cargs **C.char, size C.int) {
	args := os.Args[:1]
	for _, s := range unsafe.Slice(cargs, int(size)) {
		args = append(args, C.GoString(s))
	}
	os.Args = args
	cmd.Execute()
}

// SprngInit initializes the default generator and returns 0, or -1 if the
// type is not implemented.
//
//export SprngInit
func SprngInit(seed, param, gtype C.int) C.int {
	if err := simple.Init(int(seed), int(param), sprng.Type(gtype)); err != nil {
		return -1
	}
	return 0
}

// SprngInitParallel is SprngInit for this process's rank of the job.
//
//export SprngInitParallel
func SprngInitParallel(seed, param, gtype C.int) C.int {
	if err := simple.InitParallel(int(seed), int(param), sprng.Type(gtype)); err != nil {
		return -1
	}
	return 0
}

//export SprngInt
func SprngInt() C.int {
	return C.int(simple.Int())
}

//export SprngFloat
func SprngFloat() C.float {
	return C.float(simple.Float32())
}

//export SprngDouble
func SprngDouble() C.double {
	return C.double(simple.Float64())
}

func main() {}
