package registry

import "mercator-hq/odrlcheck/pkg/odrl/vocab"

// Expected right-operand datatypes.
const (
	TypeInteger  = vocab.XSD + "integer"
	TypeDecimal  = vocab.XSD + "decimal"
	TypeDateTime = vocab.XSD + "dateTime"
	TypeDuration = vocab.XSD + "duration"
	TypeString   = vocab.XSD + "string"
	TypeAnyURI   = vocab.XSD + "anyURI"
)

// Operator groups shared by several operands.
var (
	// ordered values (numbers, instants, durations)
	comparisonOps = []string{
		vocab.OpEq, vocab.OpNeq, vocab.OpLt, vocab.OpLteq, vocab.OpGt, vocab.OpGteq,
	}

	// concepts and identifiers
	membershipOps = []string{
		vocab.OpEq, vocab.OpNeq, vocab.OpIsA,
		vocab.OpIsAllOf, vocab.OpIsAnyOf, vocab.OpIsNoneOf,
	}

	// places and containers
	containmentOps = []string{
		vocab.OpEq, vocab.OpNeq, vocab.OpIsA, vocab.OpHasPart, vocab.OpIsPartOf,
		vocab.OpIsAllOf, vocab.OpIsAnyOf, vocab.OpIsNoneOf,
	}

	// positions inside an asset
	positionOps = []string{
		vocab.OpEq, vocab.OpNeq, vocab.OpLt, vocab.OpLteq, vocab.OpGt, vocab.OpGteq,
		vocab.OpHasPart, vocab.OpIsPartOf,
	}
)

// defaultOperands is the ODRL 2.2 left-operand vocabulary.
var defaultOperands = []OperandInfo{
	{
		URI:        vocab.ODRL + "absolutePosition",
		Label:      "Absolute Asset Position",
		Definition: "A point in space or time defined with absolute coordinates for the positioning of the target Asset.",
		Operators:  positionOps,
		ValueType:  TypeString,
	},
	{
		URI:        vocab.ODRL + "absoluteSize",
		Label:      "Absolute Asset Size",
		Definition: "Measure(s) of one or two axes for 2D-objects or measure(s) of one to three axes for 3D-objects of the target Asset.",
		Operators:  comparisonOps,
		ValueType:  TypeDecimal,
	},
	{
		URI:        vocab.ODRL + "absoluteSpatialPosition",
		Label:      "Absolute Spatial Asset Position",
		Definition: "The absolute spatial positions of four corners of a rectangle on a 2D-canvas or the eight corners of a cuboid in a 3D-space for the target Asset to fit.",
		Operators:  positionOps,
		ValueType:  TypeString,
	},
	{
		URI:        vocab.ODRL + "absoluteTemporalPosition",
		Label:      "Absolute Temporal Asset Position",
		Definition: "The absolute temporal positions in a media stream the target Asset has to fit.",
		Operators:  positionOps,
		ValueType:  TypeDecimal,
	},
	{
		URI:        vocab.ODRL + "count",
		Label:      "Count",
		Definition: "Numeric count of executions of the action of the Rule.",
		Operators:  comparisonOps,
		ValueType:  TypeInteger,
	},
	{
		URI:        vocab.ODRL + "dateTime",
		Label:      "Datetime",
		Definition: "The date (and optional time and timezone) of exercising the action of the Rule. Right operand value MUST be an xsd:date or xsd:dateTime.",
		Operators:  comparisonOps,
		ValueType:  TypeDateTime,
	},
	{
		URI:        vocab.ODRL + "delayPeriod",
		Label:      "Delay Period",
		Definition: "A time delay period prior to exercising the action of the Rule. The point in time triggering this period MAY be defined by another temporal Constraint combined by a Logical Constraint.",
		Operators:  comparisonOps,
		ValueType:  TypeDuration,
	},
	{
		URI:        vocab.ODRL + "deliveryChannel",
		Label:      "Delivery Channel",
		Definition: "The delivery channel used for exercising the action of the Rule.",
		Operators:  membershipOps,
		ValueType:  TypeAnyURI,
	},
	{
		URI:        vocab.ODRL + "device",
		Label:      "Device",
		Definition: "An identified device used for exercising the action of the Rule.",
		Operators:  membershipOps,
		ValueType:  TypeAnyURI,
	},
	{
		URI:        vocab.ODRL + "elapsedTime",
		Label:      "Elapsed Time",
		Definition: "A continuous elapsed time period which may be used for exercising of the action of the Rule.",
		Operators:  comparisonOps,
		ValueType:  TypeDuration,
	},
	{
		URI:        vocab.ODRL + "event",
		Label:      "Event",
		Definition: "An identified event setting a context for exercising the action of the Rule.",
		Operators:  []string{vocab.OpEq, vocab.OpNeq, vocab.OpLt, vocab.OpGt, vocab.OpIsA, vocab.OpIsAnyOf, vocab.OpIsNoneOf},
		ValueType:  TypeAnyURI,
	},
	{
		URI:        vocab.ODRL + "fileFormat",
		Label:      "File Format",
		Definition: "A transformed file format of the target Asset.",
		Operators:  membershipOps,
		ValueType:  TypeString,
	},
	{
		URI:        vocab.ODRL + "industry",
		Label:      "Industry Context",
		Definition: "A defined industry sector setting a context for exercising the action of the Rule.",
		Operators:  membershipOps,
		ValueType:  TypeAnyURI,
	},
	{
		URI:        vocab.ODRL + "language",
		Label:      "Language",
		Definition: "A natural language used by the target Asset.",
		Operators:  membershipOps,
		ValueType:  TypeString,
	},
	{
		URI:        vocab.ODRL + "media",
		Label:      "Media Context",
		Definition: "Category of a media asset setting a context for exercising the action of the Rule.",
		Operators:  membershipOps,
		ValueType:  TypeAnyURI,
	},
	{
		URI:        vocab.ODRL + "meteredTime",
		Label:      "Metered Time",
		Definition: "An accumulated amount of one to many metered time periods which were used for exercising the action of the Rule.",
		Operators:  comparisonOps,
		ValueType:  TypeDuration,
	},
	{
		URI:        vocab.ODRL + "payAmount",
		Label:      "Payment Amount",
		Definition: "The amount of a financial payment. Right operand value MUST be an xsd:decimal.",
		Operators:  comparisonOps,
		ValueType:  TypeDecimal,
	},
	{
		URI:        vocab.ODRL + "percentage",
		Label:      "Asset Percentage",
		Definition: "A percentage amount of the target Asset relevant for exercising the action of the Rule. Right operand value MUST be an xsd:decimal from 0 to 100.",
		Operators:  comparisonOps,
		ValueType:  TypeDecimal,
	},
	{
		URI:        vocab.ODRL + "product",
		Label:      "Product Context",
		Definition: "Category of product or service setting a context for exercising the action of the Rule.",
		Operators:  membershipOps,
		ValueType:  TypeAnyURI,
	},
	{
		URI:        vocab.ODRL + "purpose",
		Label:      "Purpose",
		Definition: "A defined purpose for exercising the action of the Rule.",
		Operators:  membershipOps,
		ValueType:  TypeAnyURI,
	},
	{
		URI:        vocab.ODRL + "recipient",
		Label:      "Recipient",
		Definition: "The party receiving the result/outcome of exercising the action of the Rule.",
		Operators:  membershipOps,
		ValueType:  TypeAnyURI,
	},
	{
		URI:        vocab.ODRL + "relativePosition",
		Label:      "Relative Asset Position",
		Definition: "A point in space or time defined with coordinates relative to full measures the positioning of the target Asset.",
		Operators:  positionOps,
		ValueType:  TypeDecimal,
	},
	{
		URI:        vocab.ODRL + "relativeSize",
		Label:      "Relative Asset Size",
		Definition: "Measure(s) of one or two axes for 2D-objects or measure(s) of one to three axes for 3D-objects, expressed as percentages of full values, of the target Asset.",
		Operators:  comparisonOps,
		ValueType:  TypeDecimal,
	},
	{
		URI:        vocab.ODRL + "relativeSpatialPosition",
		Label:      "Relative Spatial Asset Position",
		Definition: "The relative spatial positions, expressed as percentages of full values, of four corners of a rectangle on a 2D-canvas or the eight corners of a cuboid in a 3D-space of the target Asset.",
		Operators:  positionOps,
		ValueType:  TypeDecimal,
	},
	{
		URI:        vocab.ODRL + "relativeTemporalPosition",
		Label:      "Relative Temporal Asset Position",
		Definition: "A point in space or time defined with coordinates relative to full measures the positioning of the target Asset.",
		Operators:  positionOps,
		ValueType:  TypeDecimal,
	},
	{
		URI:        vocab.ODRL + "resolution",
		Label:      "Rendition Resolution",
		Definition: "Resolution of the rendition of the target Asset.",
		Operators:  comparisonOps,
		ValueType:  TypeDecimal,
	},
	{
		URI:        vocab.ODRL + "spatial",
		Label:      "Geospatial Named Area",
		Definition: "A named and identified geospatial area with defined borders which is used for exercising the action of the Rule.",
		Operators:  containmentOps,
		ValueType:  TypeAnyURI,
	},
	{
		URI:        vocab.ODRL + "spatialCoordinates",
		Label:      "Geospatial Coordinates",
		Definition: "A set of coordinates setting the borders of a geospatial area used for exercising the action of the Rule.",
		Operators:  []string{vocab.OpEq, vocab.OpNeq, vocab.OpHasPart, vocab.OpIsPartOf},
		ValueType:  TypeString,
	},
	{
		URI:        vocab.ODRL + "system",
		Label:      "System Device",
		Definition: "An identified computing system used for exercising the action of the Rule. Deprecated in favour of systemDevice.",
		Operators:  membershipOps,
		ValueType:  TypeAnyURI,
	},
	{
		URI:        vocab.ODRL + "systemDevice",
		Label:      "System Device",
		Definition: "An identified computing system used for exercising the action of the Rule.",
		Operators:  membershipOps,
		ValueType:  TypeAnyURI,
	},
	{
		URI:        vocab.ODRL + "timeInterval",
		Label:      "Recurring Time Interval",
		Definition: "A recurring period of time before the next execution of the action of the Rule.",
		Operators:  []string{vocab.OpEq},
		ValueType:  TypeDuration,
	},
	{
		URI:        vocab.ODRL + "unitOfCount",
		Label:      "Unit Of Count",
		Definition: "The unit of measure used for counting the executions of the action of the Rule.",
		Operators:  membershipOps,
		ValueType:  TypeAnyURI,
	},
	{
		URI:        vocab.ODRL + "version",
		Label:      "Version",
		Definition: "The version of the target Asset.",
		Operators:  comparisonOps,
		ValueType:  TypeString,
	},
	{
		URI:        vocab.ODRL + "virtualLocation",
		Label:      "Virtual IT Communication Location",
		Definition: "An identified location of the IT communication space which is relevant for exercising the action of the Rule.",
		Operators:  containmentOps,
		ValueType:  TypeAnyURI,
	},
}
