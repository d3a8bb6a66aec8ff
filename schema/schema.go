// Package schema has the documents, records and constants shared by all parts of codehealth.
package schema
