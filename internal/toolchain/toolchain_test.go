package toolchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildArgsHosted(t *testing.T) {
	args := buildArgs("/tmp/out.c", Options{OutputPath: "/tmp/a.out"})
	assert.Equal(t, []string{"-std=c11", "-w", "/tmp/out.c", "-o", "/tmp/a.out"}, args)
}

func TestBuildArgsFreestanding(t *testing.T) {
	args := buildArgs("/tmp/out.c", Options{
		OutputPath:    "/tmp/a.out",
		Freestanding:  true,
		RuntimeObject: "/tmp/runtime.o",
	})
	assert.Equal(t, []string{
		"-std=c11", "-w", "/tmp/out.c", "-o", "/tmp/a.out",
		"-ffreestanding", "-nostdlib", "/tmp/runtime.o",
	}, args)
}

func TestBuildArgsFreestandingNoRuntimeObject(t *testing.T) {
	args := buildArgs("/tmp/out.c", Options{OutputPath: "/tmp/a.out", Freestanding: true})
	assert.Equal(t, []string{"-std=c11", "-w", "/tmp/out.c", "-o", "/tmp/a.out", "-ffreestanding", "-nostdlib"}, args)
}
