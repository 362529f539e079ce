package models

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/d20/pkg/math3d"
)

// ExportGLB writes mesh as a binary glTF file. Every face becomes its own
// primitive so it can reference its material; all primitives share one set
// of vertex attributes.
func ExportGLB(path string, mesh *Mesh) error {
	doc, err := buildDocument(mesh)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

func buildDocument(mesh *Mesh) (*gltf.Document, error) {
	if len(mesh.Vertices) == 0 || len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("mesh %q is empty", mesh.Name)
	}
	if len(mesh.Vertices) > math.MaxUint16 {
		return nil, fmt.Errorf("mesh %q has too many vertices: %d", mesh.Name, len(mesh.Vertices))
	}

	doc := gltf.NewDocument()

	positions := make([][3]float32, len(mesh.Vertices))
	normals := make([][3]float32, len(mesh.Vertices))
	uvs := make([][2]float32, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		positions[i] = v.Position.Float32()
		normals[i] = v.Normal.Float32()
		uvs[i] = v.UV.Float32()
	}

	attrs := map[string]int{
		gltf.POSITION:   modeler.WritePosition(doc, positions),
		gltf.NORMAL:     modeler.WriteNormal(doc, normals),
		gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
	}

	for _, mat := range mesh.Materials {
		c := mat.BaseColor
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name: mat.Name,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{c[0], c[1], c[2], c[3]},
				MetallicFactor:  gltf.Float(0),
				RoughnessFactor: gltf.Float(0.8),
			},
		})
	}

	gm := &gltf.Mesh{Name: mesh.Name}
	for _, f := range mesh.Faces {
		prim := &gltf.Primitive{
			Attributes: attrs,
			Indices: gltf.Index(modeler.WriteIndices(doc, []uint16{
				uint16(f.V[0]), uint16(f.V[1]), uint16(f.V[2]),
			})),
		}
		if f.Material >= 0 && f.Material < len(mesh.Materials) {
			prim.Material = gltf.Index(f.Material)
		}
		gm.Primitives = append(gm.Primitives, prim)
	}

	doc.Meshes = []*gltf.Mesh{gm}
	doc.Nodes = []*gltf.Node{{Name: mesh.Name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	return doc, nil
}

// LoadGLB loads a binary glTF file written by ExportGLB, or any triangle
// mesh using embedded buffers.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, mat := range doc.Materials {
		m := Material{Name: mat.Name, BaseColor: [4]float64{1, 1, 1, 1}}
		if pbr := mat.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
			m.BaseColor = *pbr.BaseColorFactor
		}
		mesh.Materials = append(mesh.Materials, m)
	}

	for _, m := range doc.Meshes {
		if err := processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// processMesh appends the triangles of m to mesh. Primitives sharing a
// POSITION accessor share vertices.
func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	bases := make(map[int]int)

	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		baseVertex, seen := bases[posIdx]
		if !seen {
			baseVertex = len(mesh.Vertices)
			bases[posIdx] = baseVertex
			if err := appendVertices(doc, prim, mesh); err != nil {
				return err
			}
		}

		material, label := -1, 0
		if prim.Material != nil {
			material = *prim.Material
			if mat := mesh.GetMaterial(material); mat != nil {
				label = labelFromName(mat.Name)
			}
		}

		var indices []int
		if prim.Indices != nil {
			var err error
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			for i := range len(mesh.Vertices) - baseVertex {
				indices = append(indices, i)
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Faces = append(mesh.Faces, Face{
				V: [3]int{
					baseVertex + indices[i],
					baseVertex + indices[i+1],
					baseVertex + indices[i+2],
				},
				Material: material,
				Label:    label,
			})
		}
	}

	return nil
}

func appendVertices(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) error {
	positions, err := modeler.ReadPosition(doc, doc.Accessors[prim.Attributes[gltf.POSITION]], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("read uvs: %w", err)
		}
	}

	for i, p := range positions {
		v := MeshVertex{Position: vec3(p)}
		if i < len(normals) {
			v.Normal = vec3(normals[i])
		}
		if i < len(uvs) {
			v.UV = math3d.V2(float64(uvs[i][0]), float64(uvs[i][1]))
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}
	return nil
}

func vec3(f [3]float32) math3d.Vec3 {
	return math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
}

// readIndices widens an index accessor of any component type.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	raw, err := modeler.ReadIndices(doc, doc.Accessors[accessorIdx], nil)
	if err != nil {
		return nil, err
	}
	indices := make([]int, len(raw))
	for i, x := range raw {
		indices[i] = int(x)
	}
	return indices, nil
}

// labelFromName recovers the face number from a "face-N" material name.
func labelFromName(name string) int {
	var label int
	if _, err := fmt.Sscanf(name, "face-%d", &label); err != nil {
		return 0
	}
	return label
}
