package formats

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// NoIndex marks an absent texture coordinate or normal reference.
const NoIndex = -1

// OBJCorner is one entry of a face: 0-based indices into the vertex,
// texcoord and normal arrays. TexCoord and Normal may be NoIndex.
type OBJCorner struct {
	Vertex   int
	TexCoord int
	Normal   int
}

// OBJFace is a polygon with at least three corners.
type OBJFace struct {
	Corners  []OBJCorner
	Material string // active usemtl name when the face was read ("" = none)
	Group    string // active o/g name, for diagnostics
	Line     int
}

// OBJStats counts what the parser saw.
type OBJStats struct {
	Lines   int
	Ignored int // unrecognized directives
	Skipped int // malformed lines
}

// OBJ is a parsed Wavefront geometry file.
type OBJ struct {
	Vertices     [][3]float32
	Normals      [][3]float32
	TexCoords    [][2]float32
	Faces        []OBJFace
	MaterialLibs []string // mtllib references in file order
	Warnings     []Warning
	Stats        OBJStats
}

// LoadOBJ reads and parses an OBJ file from disk.
// Returns a *LoadError if the file cannot be opened or read.
func LoadOBJ(path string, opts LoadOptions) (*OBJ, error) {
	r, closeFn, err := openText(path, opts)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	obj, err := ParseOBJ(r)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return obj, nil
}

// ParseOBJ parses OBJ text. The only error it returns is a read error from r.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	p := &objParser{obj: &OBJ{}}
	if err := scanDirectives(r, p.parseLine); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	p.obj.freeze()
	return p.obj, nil
}

type objParser struct {
	obj      *OBJ
	material string
	group    string
}

func (p *objParser) warn(line int, format string, args ...any) {
	p.obj.Warnings = append(p.obj.Warnings, Warning{Line: line, Msg: fmt.Sprintf(format, args...)})
	p.obj.Stats.Skipped++
}

func (p *objParser) parseLine(line int, keyword, rest string) {
	p.obj.Stats.Lines = line
	fields := strings.Fields(rest)

	switch keyword {
	case "v":
		// Extra components (w or vertex colors) are ignored.
		vals, err := parseFloats(fields, 3, 3)
		if err != nil {
			p.warn(line, "vertex: %v", err)
			return
		}
		p.obj.Vertices = append(p.obj.Vertices, [3]float32{vals[0], vals[1], vals[2]})

	case "vn":
		vals, err := parseFloats(fields, 3, 3)
		if err != nil {
			p.warn(line, "normal: %v", err)
			return
		}
		p.obj.Normals = append(p.obj.Normals, [3]float32{vals[0], vals[1], vals[2]})

	case "vt":
		vals, err := parseFloats(fields, 1, 2)
		if err != nil {
			p.warn(line, "texcoord: %v", err)
			return
		}
		var tc [2]float32
		copy(tc[:], vals)
		p.obj.TexCoords = append(p.obj.TexCoords, tc)

	case "f":
		p.parseFace(line, fields)

	case "mtllib":
		if rest == "" {
			p.warn(line, "mtllib: %v", ErrTooFewFields)
			return
		}
		p.obj.MaterialLibs = append(p.obj.MaterialLibs, rest)

	case "usemtl":
		if rest == "" {
			p.warn(line, "usemtl: %v", ErrTooFewFields)
			return
		}
		p.material = rest

	case "o", "g":
		p.group = rest

	case "s", "l", "p":
		// Smoothing groups, lines and points are not rendered.

	default:
		p.obj.Stats.Ignored++
	}
}

func (p *objParser) parseFace(line int, fields []string) {
	if len(fields) < 3 {
		p.warn(line, "face with %d vertices: %v", len(fields), ErrFaceTooSmall)
		return
	}

	corners := make([]OBJCorner, 0, len(fields))
	for _, field := range fields {
		c, err := p.parseCorner(field)
		if err != nil {
			p.warn(line, "face entry %q: %v", field, err)
			return
		}
		corners = append(corners, c)
	}

	p.obj.Faces = append(p.obj.Faces, OBJFace{
		Corners:  corners,
		Material: p.material,
		Group:    p.group,
		Line:     line,
	})
}

// parseCorner parses "v", "v/t", "v/t/n" or "v//n".
func (p *objParser) parseCorner(s string) (OBJCorner, error) {
	c := OBJCorner{Vertex: NoIndex, TexCoord: NoIndex, Normal: NoIndex}
	parts := strings.SplitN(s, "/", 3)

	var err error
	if c.Vertex, err = resolveIndex(parts[0], len(p.obj.Vertices)); err != nil {
		return c, fmt.Errorf("vertex index: %w", err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.TexCoord, err = resolveIndex(parts[1], len(p.obj.TexCoords)); err != nil {
			return c, fmt.Errorf("texcoord index: %w", err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.Normal, err = resolveIndex(parts[2], len(p.obj.Normals)); err != nil {
			return c, fmt.Errorf("normal index: %w", err)
		}
	}
	return c, nil
}

// resolveIndex converts a 1-based (or negative, relative to count) file
// index into a 0-based array index. The result is not bounds checked.
func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return NoIndex, fmt.Errorf("invalid index %q", s)
	}
	switch {
	case n > 0:
		return n - 1, nil
	case n < 0:
		return count + n, nil
	}
	return NoIndex, ErrZeroIndex
}

// freeze trims spare capacity left over from parsing.
func (o *OBJ) freeze() {
	o.Vertices = o.Vertices[:len(o.Vertices):len(o.Vertices)]
	o.Normals = o.Normals[:len(o.Normals):len(o.Normals)]
	o.TexCoords = o.TexCoords[:len(o.TexCoords):len(o.TexCoords)]
	o.Faces = o.Faces[:len(o.Faces):len(o.Faces)]
}

// Valid reports whether c's vertex index refers into an array of n vertices.
func (c OBJCorner) Valid(n int) bool {
	return c.Vertex >= 0 && c.Vertex < n
}

// InvalidReferences counts corners whose vertex, texcoord or normal index
// falls outside the parsed arrays.
func (o *OBJ) InvalidReferences(f OBJFace) int {
	bad := 0
	for _, c := range f.Corners {
		if !c.Valid(len(o.Vertices)) {
			bad++
			continue
		}
		if c.TexCoord != NoIndex && (c.TexCoord < 0 || c.TexCoord >= len(o.TexCoords)) {
			bad++
			continue
		}
		if c.Normal != NoIndex && (c.Normal < 0 || c.Normal >= len(o.Normals)) {
			bad++
		}
	}
	return bad
}
