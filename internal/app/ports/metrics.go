package ports

type CommandMetrics interface {
	RecordApplied(command string)
	RecordRejected(command string)
	RecordFailure()
}
