package gekko

import (
	"image"
	"image/png"
	"os"
	"unsafe"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// AnySlice abstracts over a typed vertex slice (e.g. []Vertex) so
// LoadMesh/LoadMaterial can accept any vertex layout without a generic
// parameter. Callers pass a concrete wrapper (see MakeAnySlice) that knows
// its own element size and backing pointer.
type AnySlice interface {
	Len() int
	ElementSize() int
	DataPointer() unsafe.Pointer
}

// anySlice is the concrete AnySlice built by MakeAnySlice.
type anySlice struct {
	ptr     unsafe.Pointer
	length  int
	elemLen int
}

func (s anySlice) Len() int               { return s.length }
func (s anySlice) ElementSize() int       { return s.elemLen }
func (s anySlice) DataPointer() unsafe.Pointer { return s.ptr }

// MakeAnySlice wraps a typed slice of fixed-size vertex structs as an
// AnySlice, for handing to LoadMesh or a GPU upload helper that needs raw
// bytes without knowing the vertex type.
func MakeAnySlice[T any](s []T) AnySlice {
	if len(s) == 0 {
		return anySlice{}
	}
	var zero T
	return anySlice{
		ptr:     unsafe.Pointer(&s[0]),
		length:  len(s),
		elemLen: int(unsafe.Sizeof(zero)),
	}
}

type AssetId string

type TextureFormat uint32

const (
	TextureFormatR8Uint     TextureFormat = 0x00000003
	TextureFormatRGBA8Unorm TextureFormat = 0x00000012
	TextureFormatRGBA8Uint  TextureFormat = 0x00000015
)

type AssetServer struct {
	meshes    map[AssetId]MeshAsset
	materials map[AssetId]MaterialAsset
	textures  map[AssetId]TextureAsset
	samplers  map[AssetId]SamplerAsset
}

type AssetServerModule struct{}

type Mesh struct {
	assetId AssetId
}

type Material struct {
	assetId AssetId
}

type MeshAsset struct {
	version  uint
	vertices AnySlice
	indices  []uint16
}

type MaterialAsset struct {
	version       uint
	shaderName    string
	shaderListing string
	vertexType    any
}

type TextureAsset struct {
	version uint
	texels  []uint8
	width   uint32
	height  uint32
	format  TextureFormat
}

type SamplerAsset struct {
	version uint
	assetId AssetId
}

func (server AssetServer) LoadMesh(vertices AnySlice, indexes []uint16) Mesh {
	id := makeAssetId()

	server.meshes[id] = MeshAsset{
		0,
		vertices,
		indexes,
	}

	return Mesh{
		assetId: id,
	}
}

func (server AssetServer) LoadMaterial(filename string, vertexType any) Material {
	shaderData, err := os.ReadFile(filename)
	if err != nil {
		panic(err)
	}

	id := makeAssetId()

	server.materials[id] = MaterialAsset{
		version:       0,
		shaderName:    filename,
		shaderListing: string(shaderData),
		vertexType:    vertexType,
	}

	return Material{
		assetId: id,
	}
}

func (server AssetServer) CreateTexture(texels []uint8, texWidth uint32, texHeight uint32, format TextureFormat) AssetId {
	id := makeAssetId()

	server.textures[id] = TextureAsset{
		version: 0,
		texels:  texels,
		width:   texWidth,
		height:  texHeight,
		format:  format,
	}

	return id
}

func (server AssetServer) LoadTexture(filename string) AssetId {
	id := makeAssetId()

	file, err := os.Open(filename)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	// Decode the image
	img, err := png.Decode(file)
	if err != nil {
		panic(err)
	}

	bounds := img.Bounds()

	// Convert to RGBA if needed
	rgbaImg, ok := img.(*image.RGBA)
	if !ok {
		rgbaImg = image.NewRGBA(bounds)
		draw.Draw(rgbaImg, bounds, img, bounds.Min, draw.Src)
	}

	server.textures[id] = TextureAsset{
		version: 0,
		texels:  rgbaImg.Pix,
		width:   uint32(bounds.Max.X - bounds.Min.X),
		height:  uint32(bounds.Max.Y - bounds.Min.Y),
		format:  TextureFormatRGBA8Unorm,
	}

	return id
}

// LoadTileAtlas loads a tile-sheet PNG and precomputes the flipbook UV table
// particle.AnimationData.TexCoords expects: four floats (u0,v0,u1,v1) per
// tile, tiles numbered left-to-right, top-to-bottom, 1-based.
func (server AssetServer) LoadTileAtlas(filename string, tileWidth, tileHeight uint32) (AssetId, []float32) {
	id := server.LoadTexture(filename)
	tex := server.textures[id]
	return id, tileAtlasUVs(tex.width, tex.height, tileWidth, tileHeight)
}

func tileAtlasUVs(sheetWidth, sheetHeight, tileWidth, tileHeight uint32) []float32 {
	if tileWidth == 0 || tileHeight == 0 {
		return nil
	}
	cols := sheetWidth / tileWidth
	rows := sheetHeight / tileHeight
	if cols == 0 || rows == 0 {
		return nil
	}
	uvs := make([]float32, 0, cols*rows*4)
	for row := uint32(0); row < rows; row++ {
		for col := uint32(0); col < cols; col++ {
			u0 := float32(col*tileWidth) / float32(sheetWidth)
			v0 := float32(row*tileHeight) / float32(sheetHeight)
			u1 := float32((col+1)*tileWidth) / float32(sheetWidth)
			v1 := float32((row+1)*tileHeight) / float32(sheetHeight)
			uvs = append(uvs, u0, v0, u1, v1)
		}
	}
	return uvs
}

func (server AssetServer) CreateSampler() AssetId {
	id := makeAssetId()

	server.samplers[id] = SamplerAsset{
		version: 0,
		assetId: id,
	}

	return id
}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	app.addResources(&AssetServer{
		meshes:    make(map[AssetId]MeshAsset),
		materials: make(map[AssetId]MaterialAsset),
		textures:  make(map[AssetId]TextureAsset),
		samplers:  make(map[AssetId]SamplerAsset),
	})
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
