// Package iolib provides tools to read and write data from external services,
// together with the automation flows that check, document, and release the
// library itself.
//
// The package is organized into subpackages by domain:
//
//   - frame: lightweight tabular data shared by every adapter
//   - bigquery: BigQuery table reads and writes
//   - storage: Cloud Storage CSV reads
//   - drive: Google Drive listing and permissions
//   - sheets: Google Sheets reads and writes
//   - ftp: FTP listing and CSV reads
//   - googleauth: shared Google API credential bootstrapping
//   - flow: check and documentation-publish automation flows
//   - git: git repository operations used by the flows
//   - wiki: documentation wiki working copy management
//   - docgen: Markdown documentation generation
//   - kernel: Jupyter kernel registration
//   - release: tag release automation for GitHub and GitLab
//   - config: .ioflow.yaml configuration
//   - notify: flow event notifications
//   - history: flow run journal
//   - artifact: stored flow run outputs
//   - auth: tokens and deploy keys for publishing
//   - errors: CLI error presentation
//   - testutil: test utilities and fixtures
//
// # Quick Start
//
//	import (
//	    "github.com/utilitywarehouse/iolib/bigquery"
//	    "github.com/utilitywarehouse/iolib/frame"
//	)
//
//	mgr, _ := bigquery.NewTableManager(ctx, bigquery.TableConfig{
//	    Table: "my-project.my-dataset.my-table",
//	})
//	fr, _ := mgr.Read(ctx, "SELECT foo FROM `{table_id}` LIMIT 100")
//
// The ioflow command under cmd/ioflow drives the automation flows.
// See individual package documentation for detailed usage.
package iolib
