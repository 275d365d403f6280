package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	geojson "github.com/paulmach/go.geojson"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/raksh/borewell-capture/external/registry"
	"github.com/raksh/borewell-capture/form"
	"github.com/raksh/borewell-capture/geo"
	"github.com/raksh/borewell-capture/schema"
	"github.com/raksh/borewell-capture/utils"
)

func init() {
	viper.SetDefault("registry.url", "http://localhost:8000")
	viper.SetDefault("registry.timeout", 30*time.Second)
	viper.SetDefault("i18n.dir", "./i18n")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("borewell")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

type options struct {
	configFile string
	output     string
	lang       string
	wait       time.Duration

	latitude, longitude string
	owner, village      string
	block, district     string
	purpose, parcel     string
	drilled             bool
	depth, outcome      string
}

// patch carries only the flags given on the command line, so a device fix
// may still seed the coordinates that were left out.
func (o options) patch(set map[string]bool) (form.DraftPatch, error) {
	var p form.DraftPatch

	str := func(name string, v string) *string {
		if !set[name] {
			return nil
		}
		return &v
	}

	p.Latitude = str("lat", o.latitude)
	p.Longitude = str("lng", o.longitude)
	p.OwnerName = str("owner", o.owner)
	p.Village = str("village", o.village)
	p.Block = str("block", o.block)
	p.District = str("district", o.district)
	p.LandParcelID = str("parcel", o.parcel)
	p.ActualDepth = str("depth", o.depth)

	if set["drilled"] {
		drilled := o.drilled
		p.HasBeenDrilled = &drilled
	}

	if set["purpose"] {
		purpose, err := schema.ParsePurpose(o.purpose)
		if err != nil {
			return p, err
		}
		p.Purpose = &purpose
	}

	if set["outcome"] {
		outcome, err := schema.ParseOutcome(o.outcome)
		if err != nil {
			return p, err
		}
		p.ActualOutcome = &outcome
	}

	return p, nil
}

func writeResult(w io.Writer, format string, r *schema.RegistrationResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "geojson":
		f := geojson.NewPointFeature([]float64{r.Longitude, r.Latitude})
		f.ID = r.ID
		f.SetProperty("id", r.ID)
		if r.PredictedFeasible != nil {
			f.SetProperty("predicted_feasible", *r.PredictedFeasible)
		}
		if r.PredictedDepthM != nil {
			f.SetProperty("predicted_depth_m", *r.PredictedDepthM)
		}
		if r.ModelVersion != nil {
			f.SetProperty("model_version", *r.ModelVersion)
		}

		fc := geojson.NewFeatureCollection()
		fc.AddFeature(f)
		b, err := fc.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "text", "":
		_, err := io.WriteString(w, form.RenderResult(r))
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func main() {
	var o options

	flag.StringVar(&o.configFile, "c", "", "[optional] path of configuration file")
	flag.StringVar(&o.output, "o", "text", "output format: text, json or geojson")
	flag.StringVar(&o.lang, "lang", "en", "language of messages")
	flag.DurationVar(&o.wait, "wait", 12*time.Second, "how long to wait for the device location")

	flag.StringVar(&o.latitude, "lat", "", "latitude, detected when omitted")
	flag.StringVar(&o.longitude, "lng", "", "longitude, detected when omitted")
	flag.StringVar(&o.owner, "owner", "", "owner name")
	flag.StringVar(&o.village, "village", "", "village")
	flag.StringVar(&o.block, "block", "", "block")
	flag.StringVar(&o.district, "district", "", "district")
	flag.StringVar(&o.purpose, "purpose", string(schema.PurposeIrrigation), "irrigation, drinking, domestic, industrial or other")
	flag.StringVar(&o.parcel, "parcel", "", "[optional] land parcel id")
	flag.BoolVar(&o.drilled, "drilled", false, "the borewell has been drilled")
	flag.StringVar(&o.depth, "depth", "", "actual depth in meters, for drilled borewells")
	flag.StringVar(&o.outcome, "outcome", string(schema.OutcomeSuccess), "success, low_yield or failed")
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	if o.configFile != "" {
		viper.SetConfigType("yaml")
		viper.SetConfigFile(o.configFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	log.SetLevel(log.WarnLevel)
	if level, err := log.ParseLevel(viper.GetString("log.level")); err == nil {
		log.SetLevel(level)
	}
	log.SetOutput(os.Stderr)
	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})

	patch, err := o.patch(set)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := utils.InitI18NBundle(viper.GetString("i18n.dir"), form.Messages...); err != nil {
		log.Panic(err)
	}

	locator, err := geo.NewLocator(geo.LocatorConfig{
		Provider:     viper.GetString("locator.provider"),
		GoogleAPIKey: viper.GetString("locator.google.apikey"),
		Latitude:     viper.GetFloat64("locator.static.latitude"),
		Longitude:    viper.GetFloat64("locator.static.longitude"),
		Accuracy:     viper.GetFloat64("locator.static.accuracy"),
	})
	if err != nil {
		log.Panic(err)
	}

	registrar := registry.New(viper.GetString("registry.url"), &http.Client{
		Timeout: viper.GetDuration("registry.timeout"),
	})

	probe := geo.NewProbe(locator)
	f := form.New(registrar, probe, form.WithLocalizer(utils.NewLocalizer(o.lang)))
	f.Update(patch)

	ctx, cancel := context.WithTimeout(context.Background(), o.wait)
	probe.Start(ctx)
	f.Watch(ctx)
	cancel()

	if msg := probe.State().Error; msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}

	result, err := f.Submit(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, f.View().Error)
		os.Exit(1)
	}

	if err := writeResult(os.Stdout, o.output, result); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
