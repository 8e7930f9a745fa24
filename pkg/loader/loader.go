/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package loader defines the contract every Minecraft server distribution
// implements and the error categories shared by all of them.
package loader

import (
	"context"
	"slices"
)

// Kind identifies a server distribution.
type Kind string

const (
	// Vanilla is the unmodified Mojang server.
	Vanilla Kind = "Vanilla"
	// NeoForge is the NeoForge mod loader server.
	NeoForge Kind = "NeoForge"
	// Paper is the PaperMC server.
	Paper Kind = "Paper"
)

// Kinds returns all supported distributions in display order.
func Kinds() []Kind {
	return []Kind{Vanilla, NeoForge, Paper}
}

// ParseKind matches name against the supported distributions.
// Matching is exact and case-sensitive.
func ParseKind(name string) (Kind, bool) {
	kind := Kind(name)
	if slices.Contains(Kinds(), kind) {
		return kind, true
	}

	return "", false
}

// String returns the display name.
func (k Kind) String() string {
	return string(k)
}

// Catalog is the list of versions published upstream for one distribution,
// in upstream publication order.
type Catalog []string

// Contains reports whether version is listed in the catalog.
func (c Catalog) Contains(version string) bool {
	return slices.Contains(c, version)
}

// Loader is implemented by every server distribution.
type Loader interface {
	// Kind returns the distribution handled by this loader.
	Kind() Kind

	// Versions fetches the upstream manifest and returns every listed version.
	Versions(ctx context.Context) (Catalog, error)

	// Download installs version into destination.
	// It returns nil only when destination holds a runnable server layout.
	Download(ctx context.Context, version, destination string) error
}
