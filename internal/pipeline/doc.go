// Package pipeline runs the customer inquiry workflow.
//
// A run threads one domain.Inquiry through four stages, strictly in order:
//
//	intake -> evaluation -> scheduling -> crm_update
//
// There is no routing between stages. Scheduling is the only stage that
// branches, and only internally on the evaluation decision.
//
// # Failure model
//
// Stages never return errors. The evaluation stage is the only one that
// talks to the network; when its completion call fails (transport error,
// malformed response, timeout) the inquiry is denied and the error detail is
// written to the evaluation notes. A run therefore always produces a final
// record.
package pipeline
