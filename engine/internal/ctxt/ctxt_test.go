// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package ctxt

import (
	"testing"

	"github.com/gviegas/scenegl/driver"
	"github.com/gviegas/scenegl/driver/drivertest"
)

func TestLoad(t *testing.T) {
	defer Use(nil)
	if err := loadDriver("no such driver"); err == nil {
		t.Fatal("loadDriver: unexpected success")
	}
	driver.Register(drivertest.NewDriver())
	if err := Load("DriverTest"); err != nil {
		t.Fatalf("Load:\nhave %v\nwant nil", err)
	}
	if !Loaded() {
		t.Fatal("Loaded: unexpected false")
	}
	if drv.Name() != drivertest.Name {
		t.Fatalf("Driver().Name:\nhave %s\nwant %s", drv.Name(), drivertest.Name)
	}
	if limits != gpu.Limits() {
		t.Error("unexpected limits value")
	}
	if err := Load("vulkan"); err != nil {
		t.Fatalf("Load (fallback):\nhave %v\nwant nil", err)
	}
}

func TestUse(t *testing.T) {
	defer Use(nil)
	u := drivertest.New()
	Use(u)
	if GPU() != u {
		t.Fatalf("GPU:\nhave %v\nwant %v", GPU(), u)
	}
	if Limits().MaxTextureUnits != u.Limits().MaxTextureUnits {
		t.Error("Limits: unexpected value")
	}
	Use(nil)
	if Loaded() {
		t.Fatal("Use(nil): GPU still loaded")
	}
}
