package app

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type SeedRoom struct {
	Type      string  `yaml:"type"`
	Price     float64 `yaml:"price"`
	Available *bool   `yaml:"available"`
}

type SeedHotel struct {
	Name        string     `yaml:"name"`
	Location    string     `yaml:"location"`
	Description string     `yaml:"description"`
	ImageURL    string     `yaml:"image_url"`
	Rooms       []SeedRoom `yaml:"rooms"`
}

type SeedFile struct {
	Hotels []SeedHotel `yaml:"hotels"`
}

func ReadSeed(r io.Reader) (SeedFile, error) {
	var sf SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil {
		if err == io.EOF {
			return sf, nil
		}
		return SeedFile{}, fmt.Errorf("decode seed: %w", err)
	}
	return sf, nil
}

func LoadSeedFile(path string) (SeedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return SeedFile{}, err
	}
	defer f.Close()
	return ReadSeed(f)
}
