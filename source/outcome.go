package source

// FetchOutcome is the single structured result of one orchestration call.
//
// It is a closed sum: exactly one of Results, DirectHlsFound, NeedsCookies,
// NeedsSelenium or Failure. The unexported marker keeps the set of variants
// fixed so call sites can switch exhaustively.
type FetchOutcome interface {
	isOutcome()
}

// Results carries one or more discovered media entries.
// Warning retains a non-fatal earlier provider error for diagnostics.
type Results struct {
	Entries []*MediaEntry
	Warning error
}

// DirectHlsFound carries a raw playlist located after the provider produced no entries.
type DirectHlsFound struct {
	Result  *HlsScanResult
	Warning error
}

// NeedsCookies signals that the provider failed behind an authentication wall.
type NeedsCookies struct {
	Cause error
}

// NeedsSelenium signals that every automatic strategy failed and browser
// automation is the only remaining option.
type NeedsSelenium struct {
	Cause error
}

// Failure is terminal: no strategy produced a result and none remain.
type Failure struct {
	Cause error
}

func (*Results) isOutcome()        {}
func (*DirectHlsFound) isOutcome() {}
func (*NeedsCookies) isOutcome()   {}
func (*NeedsSelenium) isOutcome()  {}
func (*Failure) isOutcome()        {}
