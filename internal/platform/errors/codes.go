// Package errors provides structured error handling for the realm ledger.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Realm errors
	CodeRealmNotInitialized     Code = "REALM_NOT_INITIALIZED"
	CodeRealmAlreadyInitialized Code = "REALM_ALREADY_INITIALIZED"
	CodeRealmNameEmpty          Code = "REALM_NAME_EMPTY"

	// Location errors
	CodeLocationSlugEmpty         Code = "LOCATION_SLUG_EMPTY"
	CodeLocationSlugTaken         Code = "LOCATION_SLUG_TAKEN"
	CodeLocationNameEmpty         Code = "LOCATION_NAME_EMPTY"
	CodeLocationInvalidBiome      Code = "LOCATION_INVALID_BIOME"
	CodeLocationInvalidDifficulty Code = "LOCATION_INVALID_DIFFICULTY"
	CodeLocationParentNotFound    Code = "LOCATION_PARENT_NOT_FOUND"
	CodeLocationParentCycle       Code = "LOCATION_PARENT_CYCLE"

	// Totem errors
	CodeTotemEmptyArtifactSet Code = "TOTEM_EMPTY_ARTIFACT_SET"
	CodeTotemArtifactBound    Code = "TOTEM_ARTIFACT_ALREADY_BOUND"
	CodeTotemNotArtifactOwner Code = "TOTEM_NOT_ARTIFACT_OWNER"
	CodeTotemZeroAmount       Code = "TOTEM_ZERO_AMOUNT"

	// Tribe errors
	CodeTribeNameEmpty         Code = "TRIBE_NAME_EMPTY"
	CodeTribeInactive          Code = "TRIBE_INACTIVE"
	CodeTribeAlreadyInitiated  Code = "TRIBE_ALREADY_INITIATED"
	CodeTribeNotMember         Code = "TRIBE_NOT_MEMBER"
	CodeTribeRequestProcessed  Code = "TRIBE_REQUEST_ALREADY_PROCESSED"
	CodeTribeAlreadyVoted      Code = "TRIBE_ALREADY_VOTED"
	CodeTribeQuorumRequired    Code = "TRIBE_QUORUM_VOTING_REQUIRED"
	CodeTribeQuorumDisabled    Code = "TRIBE_QUORUM_VOTING_DISABLED"
	CodeTribeNotRequestDecider Code = "TRIBE_NOT_REQUEST_DECIDER"

	// Quest errors
	CodeQuestZeroAmount       Code = "QUEST_ZERO_AMOUNT"
	CodeQuestSignatureInvalid Code = "QUEST_SIGNATURE_INVALID"
	CodeQuestVoucherClaimed   Code = "QUEST_VOUCHER_ALREADY_CLAIMED"

	// Chain ledger errors
	CodeArtifactNotFound         Code = "ARTIFACT_NOT_FOUND"
	CodeTokenInsufficientBalance Code = "TOKEN_INSUFFICIENT_BALANCE"

	// Authorization errors
	CodeUnauthorized   Code = "UNAUTHORIZED"
	CodeAddressInvalid Code = "ADDRESS_INVALID"
	CodeRoleUnknown    Code = "ROLE_UNKNOWN"

	// Validation errors
	CodeAmountInvalid Code = "AMOUNT_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// Kind groups codes into the retry-relevant failure families callers branch on.
type Kind int

const (
	// KindUnknown classifies errors with no better family.
	KindUnknown Kind = iota
	// KindValidation covers malformed or empty input.
	KindValidation
	// KindNotFound covers references to entities that do not exist.
	KindNotFound
	// KindConflict covers uniqueness and exactly-once violations.
	KindConflict
	// KindUnauthorized covers missing capabilities or ownership.
	KindUnauthorized
	// KindPrecondition covers dependency state that may become ready later.
	KindPrecondition
	// KindSecurity covers signature and replay failures.
	KindSecurity
)

// Kind maps a code to its failure family.
func (c Code) Kind() Kind {
	switch c {
	case CodeRealmNameEmpty, CodeLocationSlugEmpty, CodeLocationNameEmpty,
		CodeLocationInvalidBiome, CodeLocationInvalidDifficulty,
		CodeTotemEmptyArtifactSet, CodeTotemZeroAmount, CodeTribeNameEmpty,
		CodeQuestZeroAmount, CodeAddressInvalid, CodeAmountInvalid, CodeRoleUnknown:
		return KindValidation
	case CodeNotFound, CodeLocationParentNotFound, CodeArtifactNotFound:
		return KindNotFound
	case CodeRealmAlreadyInitialized, CodeLocationSlugTaken, CodeLocationParentCycle,
		CodeTotemArtifactBound, CodeTribeAlreadyInitiated, CodeTribeRequestProcessed,
		CodeTribeAlreadyVoted, CodeTribeQuorumRequired, CodeTribeQuorumDisabled:
		return KindConflict
	case CodeUnauthorized, CodeTotemNotArtifactOwner, CodeTribeNotMember,
		CodeTribeNotRequestDecider:
		return KindUnauthorized
	case CodeRealmNotInitialized, CodeTribeInactive, CodeTokenInsufficientBalance:
		return KindPrecondition
	case CodeQuestSignatureInvalid, CodeQuestVoucherClaimed:
		return KindSecurity
	default:
		return KindUnknown
	}
}
