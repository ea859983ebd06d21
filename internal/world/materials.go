package world

import "math/rand"

// Material is the enumerated kind drawn from the closed catalog below.
type Material uint8

const (
	Air Material = iota
	Rock
	Water
	Sand
	Gravel
	Wood
	Steam
	Gunpowder
	Oil
	Lava
	Acid
	AntiVoid

	materialCount
)

// State governs how a cell of a given Material is moved by the Mover.
type State uint8

const (
	ImmovableSolid State = iota
	Granular
	Liquid
	Gas
	Replaceable
)

// Color is an RGBA byte quad, sampled once at cell construction.
type Color [4]byte

// Props is the static property record for one Material. The table below is
// immutable after process start; every Material maps to exactly one Props
// (invariant M1).
type Props struct {
	Name          string
	Material      Material
	State         State
	Density       float32
	TempCoeff     float32
	Flammable     bool
	BaseTemp      uint16
	BaseColor     Color
}

// catalog is the look-up table other functions rely on. Density and state
// values are fixed here once so every comparison elsewhere in the package
// sees the same numbers.
var catalog = [materialCount]Props{
	Air:       {Name: "Air", Material: Air, State: Replaceable, Density: 0.0, TempCoeff: 1.0, Flammable: false, BaseTemp: 298, BaseColor: Color{0, 0, 0, 0}},
	Rock:      {Name: "Rock", Material: Rock, State: ImmovableSolid, Density: 9.0, TempCoeff: 0.1, Flammable: false, BaseTemp: 298, BaseColor: Color{119, 136, 153, 255}},
	Water:     {Name: "Water", Material: Water, State: Liquid, Density: 1.0, TempCoeff: 0.1, Flammable: false, BaseTemp: 298, BaseColor: Color{0, 0, 255, 255}},
	Sand:      {Name: "Sand", Material: Sand, State: Granular, Density: 1.5, TempCoeff: 0.1, Flammable: false, BaseTemp: 298, BaseColor: Color{250, 250, 210, 255}},
	Gravel:    {Name: "Gravel", Material: Gravel, State: Granular, Density: 3.1, TempCoeff: 0.1, Flammable: false, BaseTemp: 298, BaseColor: Color{112, 128, 144, 255}},
	Wood:      {Name: "Wood", Material: Wood, State: ImmovableSolid, Density: 1.2, TempCoeff: 0.1, Flammable: true, BaseTemp: 298, BaseColor: Color{139, 69, 19, 255}},
	Steam:     {Name: "Steam", Material: Steam, State: Gas, Density: 0.1, TempCoeff: 0.1, Flammable: false, BaseTemp: 298, BaseColor: Color{206, 206, 209, 255}},
	Gunpowder: {Name: "Gunpowder", Material: Gunpowder, State: Granular, Density: 1.7, TempCoeff: 0.1, Flammable: true, BaseTemp: 298, BaseColor: Color{70, 70, 80, 255}},
	Oil:       {Name: "Oil", Material: Oil, State: Liquid, Density: 0.9, TempCoeff: 0.1, Flammable: true, BaseTemp: 298, BaseColor: Color{55, 58, 54, 255}},
	Lava:      {Name: "Lava", Material: Lava, State: Liquid, Density: 3.1, TempCoeff: 100.0, Flammable: false, BaseTemp: 298, BaseColor: Color{255, 0, 0, 255}},
	Acid:      {Name: "Acid", Material: Acid, State: Liquid, Density: 1.4, TempCoeff: 0.1, Flammable: false, BaseTemp: 298, BaseColor: Color{0, 255, 0, 255}},
	AntiVoid:  {Name: "Anti-Void", Material: AntiVoid, State: ImmovableSolid, Density: 9.9, TempCoeff: 0.1, Flammable: false, BaseTemp: 298, BaseColor: Color{0, 0, 0, 255}},
}

// PropertiesOf returns the static properties for a Material. O(1), total.
func PropertiesOf(m Material) *Props {
	return &catalog[m%materialCount]
}

// ByOrdinal wraps modulo the catalog length, supporting a UI "next
// material" cycle without the caller knowing the catalog size.
func ByOrdinal(n int) Material {
	if n < 0 {
		n = -n
	}
	return Material(n % int(materialCount))
}

// Random returns a uniformly selected Material over the catalog, using the
// caller-supplied randomness source so tests can seed a deterministic
// stream.
func Random(rng *rand.Rand) Material {
	return Material(rng.Intn(int(materialCount)))
}
