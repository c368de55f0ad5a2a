// Package jsexec executes located JavaScript parts with goja. A part file is a
// script whose completion value (its last expression statement) is the part's
// value, so a config file can simply end with an object literal:
//
//	var base = {currency: "EUR"};
//	({currency: base.currency, columns: partloader_data.columns})
//
// Template data injected with Loader.SetTemplateData is visible as global variables.
package jsexec
