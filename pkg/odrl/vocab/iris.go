package vocab

// Namespace IRIs used by ODRL policies and the validation shapes.
const (
	// ODRL is the ODRL 2.2 core vocabulary namespace.
	ODRL = "http://www.w3.org/ns/odrl/2/"

	// RDF is the RDF syntax namespace.
	RDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	// RDFS is the RDF Schema namespace.
	RDFS = "http://www.w3.org/2000/01/rdf-schema#"

	// XSD is the XML Schema datatype namespace.
	XSD = "http://www.w3.org/2001/XMLSchema#"

	// SH is the SHACL namespace, used when rendering compiled shapes.
	SH = "http://www.w3.org/ns/shacl#"
)

// RDF terms.
const (
	RDFType  = RDF + "type"
	RDFFirst = RDF + "first"
	RDFRest  = RDF + "rest"
	RDFNil   = RDF + "nil"
)

// ODRL policy classes.
const (
	ClassPolicy    = ODRL + "Policy"
	ClassSet       = ODRL + "Set"
	ClassOffer     = ODRL + "Offer"
	ClassAgreement = ODRL + "Agreement"

	ClassPermission  = ODRL + "Permission"
	ClassProhibition = ODRL + "Prohibition"
	ClassDuty        = ODRL + "Duty"

	ClassConstraint        = ODRL + "Constraint"
	ClassLogicalConstraint = ODRL + "LogicalConstraint"
)

// ODRL properties.
const (
	PropUID         = ODRL + "uid"
	PropPermission  = ODRL + "permission"
	PropProhibition = ODRL + "prohibition"
	PropObligation  = ODRL + "obligation"
	PropDuty        = ODRL + "duty"

	PropAction   = ODRL + "action"
	PropTarget   = ODRL + "target"
	PropAssigner = ODRL + "assigner"
	PropAssignee = ODRL + "assignee"

	PropConstraint = ODRL + "constraint"
	PropRefinement = ODRL + "refinement"

	PropLeftOperand           = ODRL + "leftOperand"
	PropOperator              = ODRL + "operator"
	PropRightOperand          = ODRL + "rightOperand"
	PropRightOperandReference = ODRL + "rightOperandReference"
	PropDataType              = ODRL + "dataType"
	PropUnit                  = ODRL + "unit"

	PropAnd         = ODRL + "and"
	PropOr          = ODRL + "or"
	PropXone        = ODRL + "xone"
	PropAndSequence = ODRL + "andSequence"
)

// PolicyClasses lists the policy class and its subclasses, in the order
// policy resources are collected.
func PolicyClasses() []string {
	return []string{ClassPolicy, ClassSet, ClassOffer, ClassAgreement}
}

// RuleProperties lists the policy-level properties that link a policy to rules.
func RuleProperties() []string {
	return []string{PropPermission, PropProhibition, PropObligation}
}

// LogicalOperators lists the logical constraint properties.
func LogicalOperators() []string {
	return []string{PropAnd, PropOr, PropXone, PropAndSequence}
}

// Prefixes returns the namespace prefixes used to compact IRIs in messages
// and shape renderings.
func Prefixes() map[string]string {
	return map[string]string{
		"odrl": ODRL,
		"rdf":  RDF,
		"rdfs": RDFS,
		"xsd":  XSD,
		"sh":   SH,
	}
}
