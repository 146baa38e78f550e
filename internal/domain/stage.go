package domain

// WorkflowStage represents how far a project has progressed through the
// commercial pipeline. Stages only ever move forward; re-quoting after a
// rejection does not pull the stage back.
type WorkflowStage string

const (
	StageSOW       WorkflowStage = "SOW"
	StageQuotation WorkflowStage = "QUOTATION"
	StageInvoice   WorkflowStage = "INVOICE"
	StagePayment   WorkflowStage = "PAYMENT"
	StageCompleted WorkflowStage = "COMPLETED"
)

var stageRank = map[WorkflowStage]int{
	StageSOW:       0,
	StageQuotation: 1,
	StageInvoice:   2,
	StagePayment:   3,
	StageCompleted: 4,
}

// IsValid checks if the WorkflowStage is a valid enum value
func (s WorkflowStage) IsValid() bool {
	_, ok := stageRank[s]
	return ok
}

// Rank returns the ordinal position of the stage, or -1 if unknown
func (s WorkflowStage) Rank() int {
	if r, ok := stageRank[s]; ok {
		return r
	}
	return -1
}

// AdvanceStage returns the later of the two stages. A target that would
// regress the pipeline is ignored, keeping stage progression monotonic.
func AdvanceStage(current, target WorkflowStage) WorkflowStage {
	if target.Rank() > current.Rank() {
		return target
	}
	return current
}
