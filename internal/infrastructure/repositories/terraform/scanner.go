package terraform

import (
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

//nolint:gochecknoglobals // compiled once
var (
	modulePattern       = regexp.MustCompile(`(?s)module\s+"([^"]+)"\s*\{[^}]*source\s*=\s*"([^"]+)"`)
	refPattern          = regexp.MustCompile(`[?&]ref=([^&\s"]+)`)
	refParameterPattern = regexp.MustCompile(`[?&]ref=[^&\s"]+`)
)

// moduleReference is one git-sourced module pinned with ?ref= in a .tf file.
type moduleReference struct {
	Label   string // module block label
	Source  string // source without the ref parameter, used as dependency name
	Version string // the ref value
	Line    int
}

// scanModules parses a Terraform file and extracts its pinned git modules.
// Files HCL cannot parse fall back to a regular expression.
func scanModules(content []byte, filePath string) []moduleReference {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, filePath)
	if diags.HasErrors() || file.Body == nil {
		return scanModulesWithRegex(string(content))
	}

	bodyContent, _, diags := file.Body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "module", LabelNames: []string{"name"}},
		},
	})
	if diags.HasErrors() {
		return scanModulesWithRegex(string(content))
	}

	var modules []moduleReference
	for _, block := range bodyContent.Blocks {
		attrs, _ := block.Body.JustAttributes()
		sourceAttr, ok := attrs["source"]
		if !ok {
			continue
		}
		sourceVal, valueDiags := sourceAttr.Expr.Value(&hcl.EvalContext{})
		if valueDiags.HasErrors() || sourceVal.Type() != cty.String {
			continue
		}

		if module, pinned := newModuleReference(block.Labels[0], sourceVal.AsString(), block.DefRange.Start.Line); pinned {
			modules = append(modules, module)
		}
	}
	return modules
}

func scanModulesWithRegex(content string) []moduleReference {
	var modules []moduleReference
	for _, match := range modulePattern.FindAllStringSubmatchIndex(content, -1) {
		label := content[match[2]:match[3]]
		source := content[match[4]:match[5]]
		line := strings.Count(content[:match[0]], "\n") + 1
		if module, pinned := newModuleReference(label, source, line); pinned {
			modules = append(modules, module)
		}
	}
	return modules
}

func newModuleReference(label, source string, line int) (moduleReference, bool) {
	if !isGitModule(source) {
		return moduleReference{}, false
	}
	version := extractVersion(source)
	if version == "" {
		return moduleReference{}, false
	}
	return moduleReference{
		Label:   label,
		Source:  removeVersionFromSource(source),
		Version: version,
		Line:    line,
	}, true
}

// isGitModule checks if the source URL is a Git-based module.
func isGitModule(source string) bool {
	return strings.HasPrefix(source, "git::") ||
		strings.HasPrefix(source, "git@") ||
		strings.Contains(source, "github.com") ||
		strings.Contains(source, "gitlab.com") ||
		strings.Contains(source, "bitbucket.org") ||
		strings.Contains(source, "dev.azure.com") ||
		strings.Contains(source, "_git/")
}

func extractVersion(source string) string {
	if matches := refPattern.FindStringSubmatch(source); len(matches) > 1 {
		return matches[1]
	}
	return ""
}

func removeVersionFromSource(source string) string {
	cleaned := refParameterPattern.ReplaceAllStringFunc(source, func(match string) string {
		if strings.HasPrefix(match, "?") {
			return "?"
		}
		return ""
	})
	cleaned = strings.Replace(cleaned, "?&", "?", 1)
	return strings.TrimSuffix(cleaned, "?")
}

// remoteURL extracts the clone URL of a module source: no git:: prefix,
// no //subdirectory and no query.
func remoteURL(source string) string {
	source = strings.TrimPrefix(source, "git::")
	if idx := strings.Index(source, "?"); idx != -1 {
		source = source[:idx]
	}
	schemeEnd := 0
	if idx := strings.Index(source, "://"); idx != -1 {
		schemeEnd = idx + len("://")
	}
	if idx := strings.Index(source[schemeEnd:], "//"); idx != -1 {
		source = source[:schemeEnd+idx]
	}
	if schemeEnd == 0 && !strings.HasPrefix(source, "git@") {
		source = "https://" + source
	}
	return source
}
