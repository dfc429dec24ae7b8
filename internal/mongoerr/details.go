package mongoerr

import (
	"go.mongodb.org/mongo-driver/bson"
)

// fieldFromDetails reads the keyValue document servers attach to
// duplicate key write errors, e.g. { keyValue: { email: "a@b.c" } }.
func fieldFromDetails(raw bson.Raw) string {
	if len(raw) == 0 {
		return ""
	}

	kv, err := raw.LookupErr("keyValue")
	if err != nil {
		return ""
	}

	doc, ok := kv.DocumentOK()
	if !ok {
		return ""
	}

	elems, err := doc.Elements()
	if err != nil || len(elems) == 0 {
		return ""
	}
	return elems[0].Key()
}
