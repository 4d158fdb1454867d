package diagnostics

// Codes are grouped by subsystem letter: R = resolve, G = graph,
// T = types, C = checkers, P = project orchestration.
const (
	// Lexical resolution (internal/resolve).
	CodeUnknownIdentifierKind Code = "R001" // internal bug: identifier in an unrecognized position
	CodeModuleNotFound        Code = "R002"
	CodeDuplicateImport       Code = "R003"
	CodeExportNotFound        Code = "R004"
	CodeUnresolvedBreakScope  Code = "R005"

	// Graph construction (internal/graph).
	CodeFinallyUnsupported Code = "G001"
	CodeBreakOutsideLoop    Code = "G002"
	CodeContinueOutsideLoop Code = "G003"
	CodeUnsupportedPattern  Code = "G004"

	// Checkers (internal/check).
	CodeEmptyBodyConditional Code = "C001"
	CodeDuplicateIfTest      Code = "C002"
	CodeUnusedImport         Code = "C003"
	CodeUnusedParameter      Code = "C004"
	CodeUnusedDeclaration    Code = "C005"
	CodeRenameUnusedParam    Code = "C006"
	CodeMissingAwaitWarn     Code = "C007"
	CodeMissingAwaitSuggest  Code = "C008"
	CodeCallArityWarn        Code = "C009"
	CodeCallArgTypeMismatch  Code = "C010"
	CodeCallPromiseMismatch  Code = "C011"
	CodeNotCallable          Code = "C012"
	CodePropertyOnPrimitive  Code = "C013"
	CodePropertyMissingAwait Code = "C014"
	CodePropertyDynamicAwait Code = "C015"
	CodePropertyMissingField Code = "C016"

	// Project orchestration (internal/project).
	CodeManifestDependencies Code = "P001" // trace: dependency count read from a manifest
	CodeParseFailed          Code = "P002" // a directory-mode file failed to parse
)
