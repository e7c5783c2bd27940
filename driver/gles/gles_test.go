// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package gles

import (
	"testing"

	"github.com/go-gl/gl/v3.1/gles2"

	"github.com/gviegas/scenegl/driver"
)

func TestRegister(t *testing.T) {
	for _, drv := range driver.Drivers() {
		if drv.Name() == driverName {
			return
		}
	}
	t.Fatalf("driver.Drivers: %s not registered", driverName)
}

func TestConv(t *testing.T) {
	for _, x := range [...][2]uint32{
		{convCmpFunc(driver.CLess), gles2.LESS},
		{convCmpFunc(driver.CNotEqual), gles2.NOTEQUAL},
		{convBlendFac(driver.BInvSrcAlpha), gles2.ONE_MINUS_SRC_ALPHA},
		{convStencilOp(driver.SReplace), gles2.REPLACE},
		{convTopology(driver.TTriFan), gles2.TRIANGLE_FAN},
		{convTexTarget(driver.CubeFace(0)), gles2.TEXTURE_CUBE_MAP_POSITIVE_X},
		{convTexTarget(driver.CubeFace(5)), gles2.TEXTURE_CUBE_MAP_NEGATIVE_Z},
		{convCap(driver.CapStencilTest), gles2.STENCIL_TEST},
		{convBufTarget(driver.ElementBuffer), gles2.ELEMENT_ARRAY_BUFFER},
	} {
		if x[0] != x[1] {
			t.Errorf("conv:\nhave 0x%x\nwant 0x%x", x[0], x[1])
		}
	}
	if f, typ := convPixelFmt(driver.RGB565); f != gles2.RGB || typ != gles2.UNSIGNED_SHORT_5_6_5 {
		t.Errorf("convPixelFmt:\nhave 0x%x 0x%x\nwant 0x%x 0x%x", f, typ, gles2.RGB, gles2.UNSIGNED_SHORT_5_6_5)
	}
}

func TestConvPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("convCap: expected panic for undefined constant")
		}
	}()
	convCap(driver.Cap(-1))
}
