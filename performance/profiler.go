package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	busmap "github.com/jonathanzari/ACE-Analysts"
	"github.com/jonathanzari/ACE-Analysts/constants"
)

var out = flag.String("out", "busmap_package_profile.pb.gz", "file path to output the profile to")

func main() {
	if err := run(); err != nil {
		fmt.Println("failed:", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()
	archives := flag.Args()
	var contents [][]byte
	for _, archive := range archives {
		b, err := os.ReadFile(archive)
		if err != nil {
			return err
		}
		contents = append(contents, b)
	}

	fmt.Println("starting profile")
	var profile bytes.Buffer
	pprof.StartCPUProfile(&profile)
	for i, content := range contents {
		fmt.Printf("parsing archive %d/%d\n", i+1, len(contents))
		_, err := busmap.ParseFeed(busmap.FeedName(archives[i]), content, constants.RouteTables())
		if err != nil {
			return err
		}
	}
	pprof.StopCPUProfile()

	fmt.Println("writing profile to", *out)
	os.WriteFile(*out, profile.Bytes(), 0644)
	return nil
}
