package version

// Version is the filter_index release.
const Version = "1.1.0"

// Name is the program name shown in reports.
const Name = "filter_index"
