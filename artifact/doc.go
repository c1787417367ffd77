// Package artifact stores flow run outputs on disk.
//
// Each run gets a directory under the store's base directory holding
// whatever the flow chose to keep: the final run state, analyser
// output, the generated documentation list. Old runs are archived to
// tar.gz and eventually deleted by Cleanup.
package artifact
