package roughness

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/maseology/mmio"
)

func writeFloats(fp string, f []float64) error {
	f32 := func() []float32 {
		o := make([]float32, len(f))
		for i, v := range f {
			o[i] = float32(v)
		}
		return o
	}()
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, f32); err != nil {
		return fmt.Errorf("writeFloats failed: %v", err)
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writeFloats failed: %v", err)
	}
	return nil
}

func writeInts(fp string, i []int32) error {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, i); err != nil {
		return fmt.Errorf("writeInts failed: %v", err)
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writeInts failed: %v", err)
	}
	return nil
}

func writeHDR(fp string, gd *GridDef, nbits int, pixeltype string, noData float64) error {
	return mmio.WriteLines(fp, []string{
		"BYTEORDER      I",
		"LAYOUT         BIL",
		fmt.Sprintf("NROWS          %d", gd.Nr),
		fmt.Sprintf("NCOLS          %d", gd.Nc),
		"NBANDS         1",
		fmt.Sprintf("NBITS          %d", nbits),
		fmt.Sprintf("PIXELTYPE      %s", pixeltype),
		fmt.Sprintf("ULXMAP         %f", gd.Eorig+gd.Cs/2.),
		fmt.Sprintf("ULYMAP         %f", gd.Norig-gd.Cs/2.),
		fmt.Sprintf("XDIM           %f", gd.Cs),
		fmt.Sprintf("YDIM           %f", gd.Cs),
		fmt.Sprintf("NODATA         %f", noData),
	})
}

// SaveBIL exports the roughness surface as little-endian float32 with
// masked cells written as noData, alongside an ESRI-style .hdr.
func (rg *RoughnessGrid) SaveBIL(fp string, gd *GridDef, noData float64) error {
	if gd.Nr != rg.Nr || gd.Nc != rg.Nc {
		return fmt.Errorf("%w: definition is %d x %d, grid is %d x %d", ErrIncompatibleGrids, gd.Nr, gd.Nc, rg.Nr, rg.Nc)
	}
	o := make([]float64, len(rg.V))
	for i, v := range rg.V {
		if rg.Ok[i] {
			o[i] = v
		} else {
			o[i] = noData
		}
	}
	if err := writeFloats(fp, o); err != nil {
		return err
	}
	return writeHDR(mmio.RemoveExtension(fp)+".hdr", gd, 32, "FLOAT", noData)
}

// SaveBIL exports category codes as little-endian int32, masked cells as
// NoCategory.
func (cg *ClassifiedGrid) SaveBIL(fp string, gd *GridDef) error {
	if gd.Nr != cg.Nr || gd.Nc != cg.Nc {
		return fmt.Errorf("%w: definition is %d x %d, grid is %d x %d", ErrIncompatibleGrids, gd.Nr, gd.Nc, cg.Nr, cg.Nc)
	}
	if err := writeInts(fp, cg.C); err != nil {
		return err
	}
	return writeHDR(mmio.RemoveExtension(fp)+".hdr", gd, 32, "SIGNEDINT", float64(NoCategory))
}
