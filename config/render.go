package config

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/0xPolygon/lanebridge/log"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/valyala/fasttemplate"
)

const (
	startTag = "{{"
	endTag   = "}}"
	// bare vars are quoted while merging so the TOML parser accepts them
	bareVarMark = ":int"
)

var (
	ErrCycleVars                 = fmt.Errorf("cycle vars")
	ErrMissingVars               = fmt.Errorf("missing vars")
	ErrUnsupportedConfigFileType = fmt.Errorf("unsupported config file type")

	bareVarRe   = regexp.MustCompile(`=\s*\{\{([^}:]+)\}\}`)
	quotedVarRe = regexp.MustCompile(`=\s*\"\{\{([^}:]+` + bareVarMark + `)\}\}\"`)
	markedVarRe = regexp.MustCompile(`\{\{([^}:]+` + bareVarMark + `)\}\}`)
)

// FileData is one config source, named for error reporting
type FileData struct {
	Name    string
	Content string
}

// Renderer merges TOML sources in order (later ones override) and resolves
// {{Var}} references against the merged values and the environment
type Renderer struct {
	Files []FileData
	// LookupEnv resolves environment variables, os.LookupEnv outside tests
	LookupEnv func(key string) (string, bool)
	EnvPrefix string
}

func NewRenderer(files []FileData, envPrefix string) *Renderer {
	return &Renderer{
		Files:     files,
		LookupEnv: os.LookupEnv,
		EnvPrefix: envPrefix,
	}
}

// Render merges all the files and resolves the vars inside
func (r *Renderer) Render() (string, error) {
	merged, err := r.Merge()
	if err != nil {
		return "", fmt.Errorf("fail to merge files. Err: %w", err)
	}
	return r.ResolveVars(merged)
}

// Merge loads every file on top of the previous ones and returns the result as TOML
func (r *Renderer) Merge() (string, error) {
	k := koanf.New(".")
	for _, file := range r.Files {
		content := quoteBareVars(file.Content)
		if err := k.Load(rawbytes.Provider([]byte(content)), toml.Parser()); err != nil {
			log.Errorf("error loading file %s. Err: %v", file.Name, err)
			return "", fmt.Errorf("fail to load %s as toml. Err: %w", file.Name, err)
		}
	}
	marshaled, err := k.Marshal(toml.Parser())
	if err != nil {
		return "", fmt.Errorf("fail to marshal to toml. Err: %w", err)
	}
	return unquoteVars(string(marshaled)), nil
}

// ResolveVars fills every {{Var}} with its value. A var missing from both the config
// and the environment is ErrMissingVars, vars that only reference each other are ErrCycleVars
func (r *Renderer) ResolveVars(config string) (string, error) {
	tpl, values, err := r.parse(config)
	if err != nil {
		return "", err
	}
	rendered := stripMarks(r.execute(tpl, values))
	if missing := r.missingVars(tpl, values); len(missing) > 0 {
		return rendered, fmt.Errorf("missing vars: %v. Err: %w", missing, ErrMissingVars)
	}
	resolved, err := r.resolveChains(rendered)
	if err != nil {
		return config, err
	}
	return resolved, nil
}

// resolveChains keeps rendering while each pass reduces the number of pending vars.
// A pass that resolves nothing means the remaining vars form a cycle.
func (r *Renderer) resolveChains(partial string) (string, error) {
	current := unquoteVars(partial)
	pending := varsIn(current)
	if len(pending) == 0 {
		return partial, nil
	}
	log.Debugf("pending config vars: %v", pending)
	for len(pending) > 0 {
		before := len(pending)
		tpl, values, err := r.parse(current)
		if err != nil {
			return "", fmt.Errorf("fail to read template while resolving vars. Err: %w", err)
		}
		current = stripMarks(unquoteVars(r.execute(tpl, values)))
		pending = varsIn(current)
		if len(pending) == before {
			return partial, fmt.Errorf("not resolved cycle vars: %v. Err: %w", pending, ErrCycleVars)
		}
	}
	return current, nil
}

// parse returns the config as a template plus the values it defines. Bare vars
// (A={{B}}) are read as the string "{{B:int}}" so they are not resolved here
func (r *Renderer) parse(config string) (*fasttemplate.Template, map[string]interface{}, error) {
	tpl, err := fasttemplate.NewTemplate(config, startTag, endTag)
	if err != nil {
		return nil, nil, fmt.Errorf("fail to load template. Err: %w", err)
	}
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider([]byte(quoteBareVars(config))), toml.Parser()); err != nil {
		return nil, nil, fmt.Errorf("error parsing config values. Err: %w", err)
	}
	return tpl, k.All(), nil
}

func (r *Renderer) execute(tpl *fasttemplate.Template, values map[string]interface{}) string {
	return tpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		if v, ok := r.fromEnv(tag); ok {
			return w.Write([]byte(v))
		}
		if v, ok := values[tag]; ok {
			return w.Write([]byte(fmt.Sprintf("%v", v)))
		}
		return w.Write([]byte(startTag + tag + endTag))
	})
}

func (r *Renderer) missingVars(tpl *fasttemplate.Template, values map[string]interface{}) []string {
	var missing []string
	tpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		if _, ok := r.fromEnv(tag); ok {
			return 0, nil
		}
		if _, ok := values[tag]; !ok && !contains(missing, tag) {
			missing = append(missing, tag)
		}
		return 0, nil
	})
	return missing
}

func (r *Renderer) fromEnv(tag string) (string, bool) {
	return r.LookupEnv(r.EnvPrefix + "_" + strings.ReplaceAll(tag, ".", "_"))
}

func varsIn(config string) []string {
	tpl, err := fasttemplate.NewTemplate(config, startTag, endTag)
	if err != nil {
		return nil
	}
	var vars []string
	tpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		vars = append(vars, tag)
		return 0, nil
	})
	return vars
}

func quoteBareVars(data string) string {
	return bareVarRe.ReplaceAllString(data, `= "{{${1}`+bareVarMark+`}}"`)
}

func unquoteVars(data string) string {
	return quotedVarRe.ReplaceAllStringFunc(data, func(match string) string {
		sub := quotedVarRe.FindStringSubmatch(match)
		return "= " + startTag + strings.TrimSuffix(sub[1], bareVarMark) + endTag
	})
}

func stripMarks(data string) string {
	return markedVarRe.ReplaceAllStringFunc(data, func(match string) string {
		sub := markedVarRe.FindStringSubmatch(match)
		return startTag + strings.TrimSuffix(sub[1], bareVarMark) + endTag
	})
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func toToml(content, fileType string) (string, error) {
	switch strings.ToLower(fileType) {
	case "toml":
		return content, nil
	case "json":
		k := koanf.New(".")
		if err := k.Load(rawbytes.Provider([]byte(content)), json.Parser()); err != nil {
			return content, fmt.Errorf("error loading json file. Err: %w", err)
		}
		data, err := toml.Parser().Marshal(k.Raw())
		if err != nil {
			return content, fmt.Errorf("error converting json to toml. Err: %w", err)
		}
		return string(data), nil
	case "yml", "yaml", "ini":
		return content, fmt.Errorf("cant convert from %s to TOML. Err: %w", fileType, ErrUnsupportedConfigFileType)
	default:
		log.Warnf("filetype %s unknown, assuming is a TOML file", fileType)
		return content, nil
	}
}
