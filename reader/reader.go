package reader

import (
	"fmt"

	"github.com/coreos/pkg/dlopen"
)

import "C"

// SymbolsGlobal names the NUL-terminated JSON symbol table in compiled
// libraries.
const SymbolsGlobal = "__spi_symbols"

// ReadSymbols opens the shared object at from and returns the symbol table
// string it exports.
func ReadSymbols(from string) (string, error) {
	handle, err := dlopen.GetHandle([]string{from})
	if err != nil {
		return "", err
	}
	defer handle.Close()

	sym, err := handle.GetSymbolPointer(SymbolsGlobal)
	if err != nil {
		return "", fmt.Errorf("%s: %w", from, err)
	}

	return C.GoString((*C.char)(sym)), nil
}
