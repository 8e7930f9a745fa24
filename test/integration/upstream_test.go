//go:build integration

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

package integration

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lexfrei/mcx/pkg/artifact"
	"github.com/lexfrei/mcx/pkg/loader"
	"github.com/lexfrei/mcx/pkg/resolver"
	"github.com/lexfrei/mcx/pkg/version"
)

// downloadTimeout bounds one live install.
const downloadTimeout = 10 * time.Minute

var _ = Describe("Live upstreams", Ordered, func() {
	var r *resolver.Resolver

	BeforeAll(func() {
		r = resolver.NewDefault(resolver.Options{})
	})

	for _, kind := range loader.Kinds() {
		It("lists "+kind.String()+" versions", func(ctx SpecContext) {
			catalog, err := r.ListVersions(ctx, kind.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(catalog).NotTo(BeEmpty())
		}, SpecTimeout(time.Minute))
	}

	It("installs the latest Vanilla release", func(ctx SpecContext) {
		installLatest(ctx, r, loader.Vanilla)
	}, SpecTimeout(downloadTimeout))

	It("installs the latest Paper release", func(ctx SpecContext) {
		installLatest(ctx, r, loader.Paper)
	}, SpecTimeout(downloadTimeout))

	It("installs the latest NeoForge release", func(ctx SpecContext) {
		if _, err := exec.LookPath("java"); err != nil {
			Skip("java is not on PATH")
		}

		dir := installLatest(ctx, r, loader.NeoForge)
		Expect(filepath.Join(dir, "libraries")).To(BeADirectory())
	}, SpecTimeout(downloadTimeout))

	It("reports an unpublished version as not found", func(ctx SpecContext) {
		dir := filepath.Join(GinkgoT().TempDir(), "server")

		err := r.DownloadVersion(ctx, "0.0.0-never", dir, loader.Vanilla.String())
		Expect(err).To(HaveOccurred())
		Expect(loader.CategoryOf(err)).To(Equal(loader.CategoryVersionNotFound))

		_, statErr := os.Stat(dir)
		Expect(os.IsNotExist(statErr)).To(BeTrue())
	}, SpecTimeout(time.Minute))
})

// installLatest installs the newest stable release of kind and returns the
// server directory.
func installLatest(ctx context.Context, r *resolver.Resolver, kind loader.Kind) string {
	GinkgoHelper()

	catalog, err := r.ListVersions(ctx, kind.String())
	Expect(err).NotTo(HaveOccurred())

	latest, err := version.LatestStable(catalog)
	Expect(err).NotTo(HaveOccurred())

	By("installing " + kind.String() + " " + latest)
	dir := filepath.Join(GinkgoT().TempDir(), "server")
	Expect(r.DownloadVersion(ctx, latest, dir, kind.String())).To(Succeed())

	receipt, err := artifact.ReadReceipt(dir)
	Expect(err).NotTo(HaveOccurred())
	Expect(receipt.Version).To(Equal(latest))
	Expect(receipt.Files).NotTo(BeEmpty())

	return dir
}
