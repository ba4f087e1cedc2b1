package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"snowflake/koch"
	"snowflake/render"
)

// meshMagic starts every .bin file written by mkflake.
const meshMagic = "KOCH"

const meshVersion = 1

func main() {
	var (
		outPath = flag.String("out", "", "Output file (.bin, .svg, .png, .bmp or .tiff).")
		depth   = flag.Int("depth", 4, "Recursion depth.")
		size    = flag.Int("size", 600, "Image size in pixels (.svg/.png/.bmp/.tiff).")
	)
	flag.Parse()

	if *outPath == "" {
		fatalf("usage: mkflake -depth 4 -out flake.{bin,svg,png,bmp,tiff} [-size 600]")
	}
	if *depth < 0 || *depth > koch.MaxDepth {
		fatalf("depth %d out of range 0..%d", *depth, koch.MaxDepth)
	}

	m := render.BuildLineMesh(*depth, koch.DefaultTriangle)
	if err := writeMesh(*outPath, m, *size); err != nil {
		fatalf("mkflake: %v", err)
	}
	fmt.Printf("wrote %s: depth %d, %d vertices, %d indices\n", *outPath, m.Depth, m.VertexCount(), m.IndexCount())
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// lineColor matches the first frame of the viewer.
var lineColor = render.RGB(0, 0, 0xFF)

func writeMesh(path string, m *render.LineMesh, size int) error {
	if size <= 0 {
		return fmt.Errorf("invalid size %d", size)
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".bin", ".svg":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %q: %w", path, err)
		}
		w := bufio.NewWriter(f)
		if ext == ".bin" {
			err = encodeBin(w, m)
		} else {
			err = render.WriteSVG(w, m, size, lineColor)
		}
		if err == nil {
			err = w.Flush()
		}
		return errors.Join(err, f.Close())
	}

	if _, err := render.FormatFromPath(path); err != nil {
		return err
	}
	img := render.NewImageTarget(size, size)
	render.NewRaster().Render(img, m, lineColor)
	return render.WriteImage(path, img.Img)
}

// binHeader precedes the vertex and index data of a .bin file.
type binHeader struct {
	Magic    [4]byte
	Version  uint16
	Depth    uint16
	Vertices uint32
	Indices  uint32
}

// encodeBin writes the header, the float32 vertex buffer and the uint32 index buffer,
// all little-endian.
func encodeBin(w io.Writer, m *render.LineMesh) error {
	h := binHeader{
		Version:  meshVersion,
		Depth:    uint16(m.Depth),
		Vertices: uint32(m.VertexCount()),
		Indices:  uint32(m.IndexCount()),
	}
	copy(h.Magic[:], meshMagic)
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.Points); err != nil {
		return fmt.Errorf("write vertices: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.Indices); err != nil {
		return fmt.Errorf("write indices: %w", err)
	}
	return nil
}

// decodeBin reads a file written by encodeBin.
func decodeBin(r io.Reader) (*render.LineMesh, error) {
	var h binHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(h.Magic[:]) != meshMagic {
		return nil, fmt.Errorf("bad magic %q", h.Magic[:])
	}
	if h.Version != meshVersion {
		return nil, fmt.Errorf("unsupported version %d", h.Version)
	}
	m := &render.LineMesh{
		Depth:   int(h.Depth),
		Points:  make([]float32, 2*h.Vertices),
		Indices: make([]uint32, h.Indices),
	}
	if err := binary.Read(r, binary.LittleEndian, m.Points); err != nil {
		return nil, fmt.Errorf("read vertices: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, m.Indices); err != nil {
		return nil, fmt.Errorf("read indices: %w", err)
	}
	return m, nil
}
