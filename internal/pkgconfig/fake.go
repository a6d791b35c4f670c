package pkgconfig

import (
	"fmt"

	"github.com/yambs-build/yambs/internal/target"
)

// Fake is a process-free Oracle for resolver and generator tests.
type Fake struct {
	Results map[string]target.PkgConfigResult
	Queries []string
}

func NewFake() *Fake {
	return &Fake{Results: map[string]target.PkgConfigResult{}}
}

func (f *Fake) Put(name, searchDir string, result target.PkgConfigResult) {
	if f.Results == nil {
		f.Results = map[string]target.PkgConfigResult{}
	}
	f.Results[name+"\x00"+searchDir] = result
}

func (f *Fake) Query(name, searchDir string) (target.PkgConfigResult, error) {
	f.Queries = append(f.Queries, name+"\x00"+searchDir)
	result, ok := f.Results[name+"\x00"+searchDir]
	if !ok {
		return target.PkgConfigResult{}, fmt.Errorf("pkg-config: no package %q found in %q", name, searchDir)
	}
	return result, nil
}
