package mapmodel

import "strings"

// DocType classifies a governance artifact
type DocType string

const (
	TypePolicy           DocType = "policy"
	TypeProcedure        DocType = "procedure"
	TypeWorkInstruction  DocType = "workInstruction"
	TypeSOP              DocType = "sop"
	TypeRiskAssessment   DocType = "riskAssessment"
	TypeForm             DocType = "form"
	TypeRecord           DocType = "record"
	TypeTraining         DocType = "training"
	TypeExternalStandard DocType = "externalStandard"
)

// DocTypes lists the known types in hierarchy order, policy first
var DocTypes = []DocType{
	TypePolicy,
	TypeProcedure,
	TypeWorkInstruction,
	TypeSOP,
	TypeRiskAssessment,
	TypeForm,
	TypeRecord,
	TypeTraining,
	TypeExternalStandard,
}

// Known reports whether t is one of the defined types
func (t DocType) Known() bool {
	return t.Rank() >= 0
}

// Rank is the position of t in DocTypes, or -1 for unknown types
func (t DocType) Rank() int {
	for i, known := range DocTypes {
		if t == known {
			return i
		}
	}
	return -1
}

// Label turns a camel-cased type into lower-case words ("workInstruction" -> "work instruction")
func (t DocType) Label() string {
	var b strings.Builder
	for i, r := range string(t) {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Status is the RAG health indicator of a node
type Status string

const (
	StatusGreen    Status = "green"
	StatusAmber    Status = "amber"
	StatusRed      Status = "red"
	StatusDraft    Status = "draft"
	StatusArchived Status = "archived"
)

// Statuses lists every status value
var Statuses = []Status{StatusGreen, StatusAmber, StatusRed, StatusDraft, StatusArchived}

// Valid reports whether s is one of the five defined values
func (s Status) Valid() bool {
	switch s {
	case StatusGreen, StatusAmber, StatusRed, StatusDraft, StatusArchived:
		return true
	}
	return false
}

// Normalize returns s, or draft when s is empty or unrecognised
func (s Status) Normalize() Status {
	if s.Valid() {
		return s
	}
	return StatusDraft
}

// Relationship is the kind of an edge. Values outside the constants below
// are kept verbatim and styled as "other".
type Relationship string

const (
	RelOutputToInput Relationship = "outputToInput"
	RelSupports      Relationship = "supports"
	RelGoverns       Relationship = "governs"
	RelPrerequisite  Relationship = "prerequisite"
	RelControl       Relationship = "control"
	RelEvidence      Relationship = "evidence"
	RelEscalation    Relationship = "escalation"
	RelReference     Relationship = "reference"
)
