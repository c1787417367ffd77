// Package config loads ioflow configuration.
//
// Values are resolved in three layers, later layers winning:
//
//  1. Built-in defaults
//  2. The .ioflow.yaml file at the repository root
//  3. IOFLOW_* environment variables
//
// Example:
//
//	cfg, err := config.Load(".ioflow.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.MainBranch)
package config
