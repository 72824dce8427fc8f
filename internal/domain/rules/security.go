package rules

import (
	"regexp"

	"github.com/codequal/codequal/internal/domain"
)

// SecurityRule matches a security-sensitive call on a single line. Lines
// that are comments in the rule's language are never matched. When Unless
// matches the same line the rule is suppressed.
type SecurityRule struct {
	ID          string
	Description string
	Severity    domain.Severity
	Pattern     *regexp.Regexp
	Unless      *regexp.Regexp
	Lang        domain.Language
}

func (SecurityRule) Category() domain.Category { return domain.CategorySecurity }

func (r SecurityRule) Check(line Line) []domain.Finding {
	if r.Lang.IsComment(line.Text) || !r.Pattern.MatchString(line.Text) {
		return nil
	}
	if r.Unless != nil && r.Unless.MatchString(line.Text) {
		return nil
	}
	return []domain.Finding{{
		Category: domain.CategorySecurity,
		File:     line.File,
		Line:     line.Number,
		Message:  r.Description,
		Severity: r.Severity,
		Rule:     r.ID,
	}}
}

// A bare call that is not a method on some other object.
const notAttr = `(?:^|[^.\w])`

var pythonSecurity = []SecurityRule{
	{ID: "eval", Severity: domain.SeverityHigh,
		Description: "use of eval() can execute arbitrary code",
		Pattern:     regexp.MustCompile(notAttr + `eval\s*\(`)},
	{ID: "exec", Severity: domain.SeverityHigh,
		Description: "use of exec() can execute arbitrary code",
		Pattern:     regexp.MustCompile(notAttr + `exec\s*\(`)},
	{ID: "os-system", Severity: domain.SeverityHigh,
		Description: "os.system() runs a command through the shell",
		Pattern:     regexp.MustCompile(`\bos\.system\s*\(`)},
	{ID: "os-popen", Severity: domain.SeverityHigh,
		Description: "os.popen() runs a command through the shell",
		Pattern:     regexp.MustCompile(`\bos\.popen\s*\(`)},
	{ID: "subprocess-shell", Severity: domain.SeverityMedium,
		Description: "subprocess invoked with shell=True",
		Pattern:     regexp.MustCompile(`\bshell\s*=\s*True\b`)},
	{ID: "pickle-load", Severity: domain.SeverityMedium,
		Description: "pickle deserialization of untrusted data can execute code",
		Pattern:     regexp.MustCompile(`\b(?:c?[Pp]ickle|dill)\.loads?\s*\(`)},
	{ID: "marshal-load", Severity: domain.SeverityMedium,
		Description: "marshal deserialization of untrusted data is unsafe",
		Pattern:     regexp.MustCompile(`\bmarshal\.loads?\s*\(`)},
	{ID: "yaml-load", Severity: domain.SeverityMedium,
		Description: "yaml.load() without a safe loader can construct arbitrary objects",
		Pattern:     regexp.MustCompile(`\byaml\.(?:load|load_all)\s*\(`),
		Unless:      regexp.MustCompile(`\b(?:C?SafeLoader|BaseLoader)\b`)},
	{ID: "subprocess-call", Severity: domain.SeverityLow,
		Description: "subprocess call; make sure arguments are not user-controlled",
		Pattern:     regexp.MustCompile(`\bsubprocess\.(?:call|run|Popen|check_call|check_output)\s*\(`)},
	{ID: "tempfile-mktemp", Severity: domain.SeverityLow,
		Description: "tempfile.mktemp() is race-prone; use mkstemp()",
		Pattern:     regexp.MustCompile(`\btempfile\.mktemp\s*\(`)},
	{ID: "weak-hash", Severity: domain.SeverityLow,
		Description: "md5/sha1 are weak hashes",
		Pattern:     regexp.MustCompile(`\bhashlib\.(?:md5|sha1)\s*\(`)},
}

var goSecurity = []SecurityRule{
	{ID: "shell-exec", Severity: domain.SeverityHigh,
		Description: "command executed through a shell",
		Pattern:     regexp.MustCompile(`\bexec\.Command(?:Context)?\(\s*(?:\w+\s*,\s*)?"(?:/bin/)?(?:sh|bash|zsh|cmd(?:\.exe)?)"`)},
	{ID: "tls-insecure", Severity: domain.SeverityHigh,
		Description: "TLS certificate verification disabled",
		Pattern:     regexp.MustCompile(`\bInsecureSkipVerify\s*:\s*true\b`)},
	{ID: "unsafe-pointer", Severity: domain.SeverityMedium,
		Description: "unsafe.Pointer bypasses type safety",
		Pattern:     regexp.MustCompile(`\bunsafe\.Pointer\b`)},
	{ID: "template-unescaped", Severity: domain.SeverityMedium,
		Description: "conversion to a trusted template type disables escaping",
		Pattern:     regexp.MustCompile(`\btemplate\.(?:HTML|HTMLAttr|JS|JSStr|CSS|URL)\(`)},
	{ID: "weak-hash", Severity: domain.SeverityLow,
		Description: "md5/sha1 are weak hashes",
		Pattern:     regexp.MustCompile(`\b(?:md5|sha1)\.(?:New|Sum)\b`)},
	{ID: "math-rand", Severity: domain.SeverityLow,
		Description: "math/rand is not cryptographically secure",
		Pattern:     regexp.MustCompile(`"math/rand(?:/v2)?"`)},
}

// SecurityRules returns the ordered security table for a language.
func SecurityRules(lang domain.Language) []SecurityRule {
	src := pythonSecurity
	if lang == domain.LanguageGo {
		src = goSecurity
	}
	out := make([]SecurityRule, len(src))
	for i, r := range src {
		r.Lang = lang
		out[i] = r
	}
	return out
}
