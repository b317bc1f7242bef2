package plugin

import (
	"strings"

	"github.com/cartridge-gg/introspect/derive"
	"github.com/cartridge-gg/introspect/syntax"
)

// ProcMacroResult is what every macro hands back to the host: the
// replacement tokens and any diagnostics. A failed invocation carries an
// empty stream and at least one error diagnostic.
type ProcMacroResult struct {
	TokenStream *syntax.TokenStream
	Diagnostics []syntax.Diagnostic
}

func empty() *syntax.TokenStream {
	return syntax.MustFromString("")
}

func success(code string) ProcMacroResult {
	ts, err := syntax.FromString(code)
	if err != nil {
		return failure(err)
	}
	return ProcMacroResult{TokenStream: ts}
}

func failure(err error) ProcMacroResult {
	return ProcMacroResult{TokenStream: empty(), Diagnostics: derive.Diagnostics(err)}
}

// Failed reports whether any error diagnostic was produced.
func (r ProcMacroResult) Failed() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == syntax.SeverityError {
			return true
		}
	}
	return false
}

// ExitCode is 1 for a failed invocation and 0 otherwise.
func (r ProcMacroResult) ExitCode() int {
	if r.Failed() {
		return 1
	}
	return 0
}

func (r ProcMacroResult) String() string {
	if r.TokenStream == nil {
		return ""
	}
	return r.TokenStream.String()
}

// MacroError is returned by ExpandFile when some invocation failed.
type MacroError struct {
	Diagnostics []syntax.Diagnostic
}

func (e *MacroError) Error() string {
	var b strings.Builder
	b.WriteString("macro expansion failed")
	for _, d := range e.Diagnostics {
		b.WriteString("\n  ")
		b.WriteString(d.String())
	}
	return b.String()
}
