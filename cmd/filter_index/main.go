// Command filter_index filters an Illumina FASTQ file on the index sequence
// in each read name.
//
// Reads whose index is within the allowed number of mismatches of the
// expected index go to the filtered file, the rest to the unfiltered file.
// A summary of read counts and of the number of mismatches seen is printed
// at the end.
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
