package formats

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// MaxShininess is the largest specular exponent accepted by the renderer.
const MaxShininess = 128

// Material holds the surface properties of one newmtl record.
type Material struct {
	Name       string
	Ambient    [3]float32 // Ka
	Diffuse    [3]float32 // Kd
	Specular   [3]float32 // Ks
	Shininess  float32    // Ns, unclamped as read
	Opacity    float32    // d, clamped to [0, 1]
	DiffuseMap string     // map_Kd, resolved against the library directory
}

// DefaultMaterial returns a material with the values a fresh newmtl starts from.
func DefaultMaterial(name string) Material {
	return Material{
		Name:     name,
		Ambient:  [3]float32{0.2, 0.2, 0.2},
		Diffuse:  [3]float32{0.8, 0.8, 0.8},
		Specular: [3]float32{0, 0, 0},
		Opacity:  1,
	}
}

// ClampedShininess returns Ns limited to [0, MaxShininess].
func (m Material) ClampedShininess() float32 {
	return clampf(m.Shininess, 0, MaxShininess)
}

// Translucent reports whether the material needs alpha blending.
func (m Material) Translucent() bool {
	return m.Opacity < 1
}

// MTL is a parsed material library.
type MTL struct {
	Materials []Material // in order of first definition
	Warnings  []Warning
	index     map[string]int
}

// Lookup returns the material with the given name.
func (l *MTL) Lookup(name string) (Material, bool) {
	if l == nil {
		return Material{}, false
	}
	i, ok := l.index[name]
	if !ok {
		return Material{}, false
	}
	return l.Materials[i], true
}

// LoadMTL reads and parses a material library from disk. Relative texture
// paths are resolved against the library's directory.
func LoadMTL(path string, opts LoadOptions) (*MTL, error) {
	r, closeFn, err := openText(path, opts)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	lib, err := ParseMTL(r, filepath.Dir(path))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return lib, nil
}

// ParseMTL parses material library text. dir is the directory relative
// texture paths are resolved against; "" leaves them untouched.
func ParseMTL(r io.Reader, dir string) (*MTL, error) {
	p := &mtlParser{lib: &MTL{index: make(map[string]int)}, dir: dir, current: -1}
	if err := scanDirectives(r, p.parseLine); err != nil {
		return nil, fmt.Errorf("reading MTL: %w", err)
	}
	return p.lib, nil
}

type mtlParser struct {
	lib     *MTL
	dir     string
	current int // index into lib.Materials, -1 before the first newmtl
}

func (p *mtlParser) warn(line int, format string, args ...any) {
	p.lib.Warnings = append(p.lib.Warnings, Warning{Line: line, Msg: fmt.Sprintf(format, args...)})
}

func (p *mtlParser) parseLine(line int, keyword, rest string) {
	if keyword == "newmtl" {
		p.newMaterial(line, rest)
		return
	}

	switch keyword {
	case "Ka", "Kd", "Ks", "Ns", "d", "Tr", "map_Kd":
	default:
		// Ke, Ni, illum, map_Bump and friends are not rendered.
		return
	}

	if p.current < 0 {
		p.warn(line, "%s: %v", keyword, ErrNoOpenMaterial)
		return
	}
	m := &p.lib.Materials[p.current]
	fields := strings.Fields(rest)

	switch keyword {
	case "Ka", "Kd", "Ks":
		c, err := parseColor(fields)
		if err != nil {
			p.warn(line, "%s: %v", keyword, err)
			return
		}
		switch keyword {
		case "Ka":
			m.Ambient = c
		case "Kd":
			m.Diffuse = c
		case "Ks":
			m.Specular = c
		}

	case "Ns":
		vals, err := parseFloats(fields, 1, 1)
		if err != nil {
			p.warn(line, "Ns: %v", err)
			return
		}
		m.Shininess = vals[0]

	case "d", "Tr":
		// "d -halo 0.5" carries an option before the value.
		if len(fields) > 0 && fields[0] == "-halo" {
			fields = fields[1:]
		}
		vals, err := parseFloats(fields, 1, 1)
		if err != nil {
			p.warn(line, "%s: %v", keyword, err)
			return
		}
		opacity := vals[0]
		if keyword == "Tr" {
			opacity = 1 - opacity
		}
		m.Opacity = clampf(opacity, 0, 1)

	case "map_Kd":
		tex := textureFile(fields)
		if tex == "" {
			p.warn(line, "map_Kd: %v", ErrTooFewFields)
			return
		}
		m.DiffuseMap = p.resolve(tex)
	}
}

func (p *mtlParser) newMaterial(line int, name string) {
	if name == "" {
		p.warn(line, "newmtl: %v", ErrTooFewFields)
		p.current = -1
		return
	}
	if i, ok := p.lib.index[name]; ok {
		p.warn(line, "material %q redefined, later definition wins", name)
		p.lib.Materials[i] = DefaultMaterial(name)
		p.current = i
		return
	}
	p.lib.index[name] = len(p.lib.Materials)
	p.current = len(p.lib.Materials)
	p.lib.Materials = append(p.lib.Materials, DefaultMaterial(name))
}

// resolve makes a texture path absolute with respect to the library directory.
func (p *mtlParser) resolve(tex string) string {
	tex = filepath.FromSlash(strings.ReplaceAll(tex, `\`, "/"))
	if filepath.IsAbs(tex) || p.dir == "" {
		return tex
	}
	return filepath.Join(p.dir, tex)
}

// parseColor accepts "r g b" or a single value replicated to all channels.
// Spectral ("spectral file") and CIE ("xyz") forms are rejected.
func parseColor(fields []string) ([3]float32, error) {
	if len(fields) > 0 && (fields[0] == "spectral" || fields[0] == "xyz") {
		return [3]float32{}, fmt.Errorf("unsupported color form %q", fields[0])
	}
	vals, err := parseFloats(fields, 1, 3)
	if err != nil {
		return [3]float32{}, err
	}
	if len(vals) < 3 {
		return [3]float32{vals[0], vals[0], vals[0]}, nil
	}
	return [3]float32{vals[0], vals[1], vals[2]}, nil
}

// textureOptionArgs is the maximum argument count of each map_* option.
var textureOptionArgs = map[string]int{
	"-blendu":  1,
	"-blendv":  1,
	"-bm":      1,
	"-boost":   1,
	"-cc":      1,
	"-clamp":   1,
	"-imfchan": 1,
	"-mm":      2,
	"-o":       3,
	"-s":       3,
	"-t":       3,
	"-texres":  1,
}

// textureFile strips map_* options and returns the file name, which may
// contain spaces.
func textureFile(fields []string) string {
	i := 0
	for i < len(fields) {
		n, ok := textureOptionArgs[fields[i]]
		if !ok {
			break
		}
		i++
		// Options take up to n arguments; numeric ones stop at the first non-number.
		for taken := 0; taken < n && i < len(fields); taken++ {
			if taken > 0 {
				if _, err := strconv.ParseFloat(fields[i], 32); err != nil {
					break
				}
			}
			i++
		}
	}
	return strings.Join(fields[i:], " ")
}
