// Package sparkprep primes local dataset archives for a Spark cluster. It
// makes sure each remote archive exists on local disk (downloading it at most
// once), derives a column schema from the file header without scanning the
// whole file, and hands both to a Spark Connect endpoint which does the
// actual loading, querying and caching.
//
// The package is deliberately dumb about types: every derived column is
// declared as text and registered with schema inference turned off. The
// archives this was built for run to tens of millions of rows, so casting is
// left to the engine, where it belongs.
//
// Sub-packages: csv streams rows of primed archives, transform holds simple
// row transforms (binarize, bucketize), s3 fetches s3:// archives, spark
// talks to the Spark Connect endpoint, and cmd/usecase wire it all into the
// sparkprep binary.
package sparkprep
