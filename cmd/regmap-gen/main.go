// Command regmap-gen writes Go register offset and bit-field constants from
// a CMSIS-SVD device description.
//
//	regmap-gen -in MKE06Z4.svd -out chip -pkg chip -p UART0,SIM,ICS,OSC
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"omibyte.io/kinetis/cmd/regmap-gen/generator"
	"omibyte.io/kinetis/cmd/regmap-gen/svd"
)

var (
	svdIn       string
	outputDir   string
	pkgName     string
	peripherals string
)

func main() {
	flag.StringVar(&svdIn, "in", "", "input SVD file")
	flag.StringVar(&outputDir, "out", ".", "output directory")
	flag.StringVar(&pkgName, "pkg", "chip", "package name of the generated files")
	flag.StringVar(&peripherals, "p", "", "comma separated peripheral or group names (default: all)")
	flag.Parse()

	// Open the input file
	file, err := os.Open(svdIn)
	if err != nil {
		log.Fatal("file io error: ", err)
	}

	// Decode the SVD XML
	device, err := svd.Decode(file)
	if err != nil {
		log.Fatal("xml decode error: ", err)
	}

	// Close the file
	if err = file.Close(); err != nil {
		log.Fatal("file io error: ", err)
	}

	fmt.Println("Generating register constants for the following device:")
	fmt.Printf("Device:\t\t%s\n", device.Name)
	fmt.Printf("Series:\t\t%s\n", device.Series)
	fmt.Printf("CPU:\t\t%s %s\n", device.CPU.Name, device.CPU.Revision)
	fmt.Printf("Peripherals:\t%d\n", len(device.Peripherals.Elements))

	options := generator.Options{
		Package: pkgName,
		Source:  filepath.Base(svdIn),
	}
	if len(peripherals) > 0 {
		options.Peripherals = strings.Split(peripherals, ",")
	}

	files, err := generator.Generate(device, options)
	if err != nil {
		log.Fatal("generator error: ", err)
	}

	// Create the output directory
	if err = os.MkdirAll(outputDir, 0750); err != nil {
		log.Fatal("file io error: ", err)
	}

	names := maps.Keys(files)
	slices.Sort(names)
	for _, name := range names {
		path := filepath.Join(outputDir, name)
		if err = os.WriteFile(path, files[name], 0640); err != nil {
			log.Fatal("file io error: ", err)
		}
		fmt.Println(path)
	}

	fmt.Println("Done.")
}
