package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gosuri/uiprogress"
	"github.com/maseology/mmio"
	"github.com/maseology/objfunc"
	"github.com/maseology/roughness"
)

const noData = -9999.

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: roughness <control file>")
	}

	fmt.Println("")
	tt := mmio.NewTimer()
	defer tt.Lap("\nrun complete")

	ins := mmio.NewInstruct(os.Args[1])
	one := func(k string) string {
		v, ok := ins.Param[k]
		if !ok || len(v) == 0 {
			log.Fatalf(" control file: missing '%s'", k)
		}
		return v[0]
	}
	opt := func(k, d string) string {
		if v, ok := ins.Param[k]; ok && len(v) > 0 {
			return v[0]
		}
		return d
	}
	pfloat := func(s, k string) float64 {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			log.Fatalf(" control file: bad %s '%s': %v", k, s, err)
		}
		return v
	}
	pint := func(s, k string) int {
		v, err := strconv.Atoi(s)
		if err != nil {
			log.Fatalf(" control file: bad %s '%s': %v", k, s, err)
		}
		return v
	}

	gdefFP, demFP, prfx := one("gdef"), one("dem"), one("prfx")

	par := roughness.DefaultParams()
	par.WindowSizeMeters = pfloat(opt("window", "1.0"), "window")
	par.BandNumber = pint(opt("band", "1"), "band")
	par.HighValueThreshold = pfloat(opt("hithresh", "10.0"), "hithresh")
	par.MaskZero = opt("maskzero", "0") == "1"
	if s, ok := ins.Param["thresholds"]; ok {
		for _, f := range s {
			for _, w := range strings.Split(f, ",") {
				if w = strings.TrimSpace(w); len(w) > 0 {
					par.CategoryThresholds = append(par.CategoryThresholds, pfloat(w, "thresholds"))
				}
			}
		}
	}

	// load
	gd, err := roughness.ReadGDEF(gdefFP)
	if err != nil {
		log.Fatalf(" %v", err)
	}
	stack, err := roughness.LoadStackBIL(demFP, gd, noData)
	if err != nil {
		log.Fatalf(" %v", err)
	}
	fmt.Printf(" %d x %d cells at %g m, %d band(s)\n", gd.Nr, gd.Nc, gd.Cs, len(stack.Bands))
	tt.Print("load complete\n")

	// compute (and classify when thresholds given)
	res, err := roughness.Process(stack, par)
	if err != nil {
		log.Fatalf(" %v", err)
	}
	if err := res.Roughness.SaveBIL(prfx+"roughness.bil", gd, noData); err != nil {
		log.Fatalf(" %v", err)
	}
	if res.Classified != nil {
		if err := res.Classified.SaveBIL(prfx+"categories.bil", gd); err != nil {
			log.Fatalf(" %v", err)
		}
	}
	tt.Print("roughness complete\n")

	// optimize breakpoints against a reference labeling, when given
	refFP := opt("ref", "")
	if len(refFP) == 0 {
		return
	}
	if _, ok := mmio.FileExists(refFP); !ok {
		log.Fatalf(" reference raster not found: %s", refFP)
	}
	ref, err := roughness.LoadClassifiedBIL(refFP, gd)
	if err != nil {
		log.Fatalf(" %v", err)
	}
	ncat := 0
	for i, ok := range ref.Ok {
		if ok && int(ref.C[i]) >= ncat {
			ncat = int(ref.C[i]) + 1
		}
	}
	if ncat < 2 {
		log.Fatalf(" reference raster holds %d categories, nothing to optimize", ncat)
	}

	spec := roughness.OptimizeSpec{
		CandidateCount: pint(opt("budget", "500"), "budget"),
		NumThresholds:  ncat - 1,
		Min:            0.,
		Max:            par.HighValueThreshold,
		Seed:           int64(pint(opt("seed", "0"), "seed")),
	}
	if t, err := roughness.SeedThresholds(res.Roughness, ref, ncat); err == nil {
		spec.Seeds = []roughness.ThresholdSet{t}
		fmt.Printf(" percentile-seeded breakpoints: %.4f\n", t)
	}

	fmt.Println(" optimizing..")
	uiprogress.Start()
	bar := uiprogress.AddBar(spec.CandidateCount).AppendCompleted().PrependElapsed()
	spec.Score = func(cm *roughness.ConfusionMatrix) float64 {
		defer bar.Incr()
		return roughness.ScoreAccuracy(cm)
	}
	best, err := roughness.Optimize(context.Background(), res.Roughness, ref, spec)
	uiprogress.Stop()
	if err != nil {
		log.Fatalf(" %v", err)
	}

	fmt.Printf("\nfinal breakpoints: %.4f (%d candidates evaluated)\n", best.Thresholds, best.Evaluated)
	fmt.Printf(" overall accuracy: %.3f\n", best.Report.Accuracy)
	for i := range best.Report.Precision {
		fmt.Printf("  category %d: precision %.3f recall %.3f\n", i, best.Report.Precision[i], best.Report.Recall[i])
	}

	cg, err := roughness.Classify(res.Roughness, best.Thresholds)
	if err != nil {
		log.Fatalf(" %v", err)
	}
	if err := cg.SaveBIL(prfx+"categories.optimized.bil", gd); err != nil {
		log.Fatalf(" %v", err)
	}

	// series-based agreement summary
	obs, sim, err := roughness.AgreementSeries(cg, ref)
	if err != nil {
		log.Fatalf(" %v", err)
	}
	fmt.Printf(" code agreement: RMSE %.4f NSE %.4f bias %.4f\n",
		objfunc.RMSE(obs, sim), objfunc.NSE(obs, sim), objfunc.Bias(obs, sim))

	// persist the report
	lns := []string{"metric,value",
		fmt.Sprintf("score,%f", best.Report.Score),
		fmt.Sprintf("accuracy,%f", best.Report.Accuracy),
		fmt.Sprintf("scored,%d", best.Report.Scored),
		fmt.Sprintf("evaluated,%d", best.Evaluated),
	}
	for i := range best.Report.Precision {
		lns = append(lns,
			fmt.Sprintf("precision.%d,%f", i, best.Report.Precision[i]),
			fmt.Sprintf("recall.%d,%f", i, best.Report.Recall[i]))
	}
	if err := mmio.WriteLines(prfx+"quality.csv", lns); err != nil {
		log.Fatalf(" %v", err)
	}
	tt.Print("optimization complete\n")
}
