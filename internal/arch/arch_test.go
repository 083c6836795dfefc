// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	bans := map[string][]string{
		"bcseq/internal/reads": {
			"bcseq/internal/bamio", "bcseq/internal/fastqio", "bcseq/internal/pipeline",
			"bcseq/internal/config", "bcseq/internal/cli", "bcseq/internal/app", "bcseq/cmd/",
		},
		"bcseq/internal/bamio": {
			"bcseq/internal/fastqio", "bcseq/internal/pipeline", "bcseq/internal/writers",
			"bcseq/internal/config", "bcseq/internal/cli", "bcseq/internal/app", "bcseq/cmd/",
		},
		"bcseq/internal/fastqio": {
			"bcseq/internal/bamio", "bcseq/internal/pipeline", "bcseq/internal/writers",
			"bcseq/internal/config", "bcseq/internal/cli", "bcseq/internal/app", "bcseq/cmd/",
		},
		"bcseq/internal/pipeline": {
			"bcseq/internal/bamio", "bcseq/internal/fastqio", "bcseq/internal/writers",
			"bcseq/internal/config", "bcseq/internal/cli", "bcseq/internal/cmdutil",
			"bcseq/internal/app", "bcseq/cmd/",
		},
		"bcseq/internal/writers": {
			"bcseq/internal/pipeline", "bcseq/internal/config",
			"bcseq/internal/cli", "bcseq/internal/app", "bcseq/cmd/",
		},
		"bcseq/internal/config": {
			"bcseq/internal/pipeline", "bcseq/internal/cli", "bcseq/internal/app", "bcseq/cmd/",
		},
		"bcseq/internal/cli": {
			"bcseq/internal/pipeline", "bcseq/internal/app", "bcseq/cmd/",
		},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, "bcseq/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, "bcseq/") {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
