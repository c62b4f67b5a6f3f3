package compose

import (
	"github.com/coregx/pdfcore/internal/doc"
	"github.com/coregx/pdfcore/internal/object"
)

// stitchStructureTrees clones each source's top-level structure elements
// with that source's own cloner (so /Pg references inside resolve to the
// page dictionaries already cloned for that source) and gathers them,
// alongside whatever the destination already had, under one new
// /Document-type wrapper node. Role maps are unioned with destination
// precedence; ID trees likewise, treated as a name tree since both share
// the same /Names-or-/Kids shape.
func (m *Merger) stitchStructureTrees(states []*sourceState) error {
	anySource := false
	for _, st := range states {
		if st.source.StructTree() != nil {
			anySource = true
			break
		}
	}
	if !anySource {
		return nil
	}

	dstTree := m.dst.EnsureStructTree()
	existingK, _ := dstTree.Dict.GetArray("K")
	wrapperKids := object.NewArray()
	if existingK != nil {
		wrapperKids.AppendAll(existingK)
	}

	for _, st := range states {
		srcTree := st.source.StructTree()
		if srcTree == nil {
			continue
		}

		for _, kid := range srcTree.Kids() {
			cloned, ok := st.cloner.Clone(kid.Dict, st.source.Table).(*object.Dictionary)
			if !ok {
				continue
			}
			wrapperKids.Append(m.dst.Table.Put(0, 0, cloned))
		}

		if rm := srcTree.RoleMap(); rm != nil {
			dstRM, ok := dstTree.Dict.GetDictionary("RoleMap")
			if !ok {
				dstRM = object.NewDictionary()
				dstTree.Dict.Set("RoleMap", dstRM)
			}
			dstRM.Merge(rm)
		}

		if idDict, ok := srcTree.Dict.GetDictionary("IDTree"); ok {
			srcIDTree := doc.NewNameTree(st.source, idDict)
			var dstIDTree *doc.NameTree
			if dstIDDict, ok := dstTree.Dict.GetDictionary("IDTree"); ok {
				dstIDTree = doc.NewNameTree(m.dst, dstIDDict)
			}
			dstTree.Dict.Set("IDTree", doc.MergeNameTrees(dstIDTree, srcIDTree))
		}
	}

	wrapper := object.NewDictionary()
	wrapper.Set("Type", object.Name("StructElem"))
	wrapper.Set("S", object.Name("Document"))
	wrapper.Set("P", dstTree.Ref)
	wrapper.Set("K", wrapperKids)
	wrapperRef := m.dst.Table.Put(0, 0, wrapper)

	dstTree.Dict.Set("K", object.NewArray(wrapperRef))
	return nil
}

// stitchNameTrees unions /Dests and every catalog /Names subtree category
// present in any source, destination winning on key collision.
func (m *Merger) stitchNameTrees(states []*sourceState) {
	for _, st := range states {
		srcDests, ok := st.source.Dests()
		if ok {
			dstDests, _ := m.dst.Dests()
			merged := doc.MergeNameTrees(dstDests, srcDests)
			dstCat := m.dst.Catalog()
			dstCat.Set("Dests", merged)
		}

		srcCat := st.source.Catalog()
		srcNames, ok := srcCat.GetDictionary("Names")
		if !ok {
			continue
		}
		dstCat := m.dst.Catalog()
		dstNames, ok := dstCat.GetDictionary("Names")
		if !ok {
			dstNames = object.NewDictionary()
			dstCat.Set("Names", dstNames)
		}
		for _, category := range srcNames.Keys() {
			srcSubtree, ok := st.source.NamesCategory(category)
			if !ok {
				continue
			}
			var dstSubtree *doc.NameTree
			if dstDict, ok := dstNames.GetDictionary(category); ok {
				dstSubtree = doc.NewNameTree(m.dst, dstDict)
			}
			dstNames.Set(category, doc.MergeNameTrees(dstSubtree, srcSubtree))
		}
	}
}

// stitchOutlines clones each source's top-level outline items with that
// source's cloner and splices them as new siblings after the destination
// outline's current last child.
func (m *Merger) stitchOutlines(states []*sourceState) {
	anySource := false
	for _, st := range states {
		if _, ok := st.source.Outlines(); ok {
			anySource = true
			break
		}
	}
	if !anySource {
		return
	}

	dstOutline := m.dst.EnsureOutlines()
	for _, st := range states {
		srcOutline, ok := st.source.Outlines()
		if !ok {
			continue
		}
		var items []*doc.OutlineItem
		cur, ok := srcOutline.First()
		for ok {
			clonedDict, isDict := st.cloner.Clone(cur.Dict, st.source.Table).(*object.Dictionary)
			if isDict {
				ref := m.dst.Table.Put(0, 0, clonedDict)
				items = append(items, &doc.OutlineItem{Dict: clonedDict, Ref: ref})
			}
			cur, ok = cur.Next()
		}
		dstOutline.AppendSiblings(items)
	}
}

// stitchPageLabels offsets each source's /PageLabels entries by the
// destination page count observed just before that source's pages were
// appended, and unions the result into the destination's page-label tree.
func (m *Merger) stitchPageLabels(states []*sourceState) {
	anySource := false
	for _, st := range states {
		if _, ok := st.source.PageLabels(); ok {
			anySource = true
			break
		}
	}
	if !anySource {
		return
	}

	for _, st := range states {
		srcLabels, ok := st.source.PageLabels()
		if !ok {
			continue
		}
		dstLabels, _ := m.dst.PageLabels()
		merged := doc.MergePageLabels(m.dst, dstLabels, srcLabels, st.pageOffset)
		m.dst.Catalog().Set("PageLabels", merged)
	}
}

// stitchOutputIntents concatenates each source's /OutputIntents array,
// deduplicating by /OutputConditionIdentifier except the literal value
// "Custom", which never counts as a duplicate of another "Custom" intent.
func (m *Merger) stitchOutputIntents(states []*sourceState) {
	dstCat := m.dst.Catalog()
	dstArr, ok := dstCat.GetArray("OutputIntents")
	if !ok {
		dstArr = object.NewArray()
	}

	seen := map[string]bool{}
	collectOutputIntentIdentifiers(m.dst, dstArr, seen)

	for _, st := range states {
		srcArr, ok := st.source.Catalog().GetArray("OutputIntents")
		if !ok {
			continue
		}
		for i := 0; i < srcArr.Len(); i++ {
			cloned, ok := st.cloner.Clone(srcArr.Get(i), st.source.Table).(*object.Dictionary)
			if !ok {
				continue
			}
			id, _ := cloned.GetString("OutputConditionIdentifier")
			key := string(id)
			if key != "" && key != "Custom" {
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			dstArr.Append(m.dst.Table.Put(0, 0, cloned))
		}
	}
	if dstArr.Len() > 0 {
		dstCat.Set("OutputIntents", dstArr)
	}
}

func collectOutputIntentIdentifiers(d *doc.Document, arr *object.Array, seen map[string]bool) {
	for i := 0; i < arr.Len(); i++ {
		intent, ok := d.Table.Deref(arr.Get(i)).(*object.Dictionary)
		if !ok {
			continue
		}
		id, ok := intent.GetString("OutputConditionIdentifier")
		if ok && string(id) != "Custom" && string(id) != "" {
			seen[string(id)] = true
		}
	}
}

// stitchOCProperties merges every source's optional-content groups and
// default configuration into the destination's.
func (m *Merger) stitchOCProperties(states []*sourceState) {
	anySource := false
	for _, st := range states {
		if _, ok := st.source.OCProperties(); ok {
			anySource = true
			break
		}
	}
	if !anySource {
		return
	}

	dstOC := m.dst.EnsureOCProperties()
	for _, st := range states {
		srcOC, ok := st.source.OCProperties()
		if !ok {
			continue
		}
		cloned, ok := st.cloner.Clone(srcOC.Dict, st.source.Table).(*object.Dictionary)
		if !ok {
			continue
		}
		dstOC.Merge(doc.NewOCProperties(m.dst, cloned))
	}
}

// stitchAcroForms clones each source's top-level fields with that
// source's cloner and merges them into the destination's form under the
// configured conflict-resolution mode.
func (m *Merger) stitchAcroForms(states []*sourceState) error {
	anySource := false
	for _, st := range states {
		if st.source.AcroForm() != nil {
			anySource = true
			break
		}
	}
	if !anySource {
		return nil
	}

	dstForm := m.dst.EnsureAcroForm()
	for _, st := range states {
		srcForm := st.source.AcroForm()
		if srcForm == nil {
			continue
		}
		var incoming []*doc.Field
		for _, f := range srcForm.Fields() {
			cloned, ok := st.cloner.Clone(f.Dict, st.source.Table).(*object.Dictionary)
			if !ok {
				continue
			}
			incoming = append(incoming, doc.NewField(m.dst, cloned))
		}
		if err := dstForm.MergeFields(incoming, m.fieldMode); err != nil {
			return err
		}
	}
	return nil
}

// stitchViewerPreferences ORs boolean viewer-preference flags across every
// source and the destination; non-boolean keys are copied in only when
// the destination does not already set them.
func (m *Merger) stitchViewerPreferences(states []*sourceState) {
	dstCat := m.dst.Catalog()
	dstPrefs, ok := dstCat.GetDictionary("ViewerPreferences")
	if !ok {
		dstPrefs = object.NewDictionary()
	}
	any := false

	for _, st := range states {
		srcPrefs, ok := st.source.Catalog().GetDictionary("ViewerPreferences")
		if !ok {
			continue
		}
		any = true
		for _, key := range srcPrefs.Keys() {
			srcVal := srcPrefs.Get(key)
			if srcBool, ok := srcVal.(object.Boolean); ok {
				dstBool, _ := dstPrefs.GetBoolean(key)
				dstPrefs.Set(key, object.Boolean(bool(dstBool) || bool(srcBool)))
				continue
			}
			if !dstPrefs.Has(key) {
				dstPrefs.Set(key, srcVal)
			}
		}
	}
	if any {
		dstCat.Set("ViewerPreferences", dstPrefs)
	}
}

// stitchLanguageAndMarkInfo takes the destination's own /Lang if already
// set, otherwise the first source's; merges /MarkInfo by OR-ing /Marked
// and leaving every other key destination-wins.
func (m *Merger) stitchLanguageAndMarkInfo(states []*sourceState) {
	dstCat := m.dst.Catalog()
	if !dstCat.Has("Lang") {
		for _, st := range states {
			if lang, ok := st.source.Catalog().GetString("Lang"); ok {
				dstCat.SetString("Lang", string(lang))
				break
			}
		}
	}

	for _, st := range states {
		srcMark, ok := st.source.Catalog().GetDictionary("MarkInfo")
		if !ok {
			continue
		}
		dstMark, ok := dstCat.GetDictionary("MarkInfo")
		if !ok {
			dstMark = object.NewDictionary()
			dstCat.Set("MarkInfo", dstMark)
		}
		srcMarked, _ := srcMark.GetBoolean("Marked")
		dstMarked, _ := dstMark.GetBoolean("Marked")
		dstMark.SetBoolean("Marked", bool(dstMarked) || bool(srcMarked))
		dstMark.Merge(srcMark)
	}
}
