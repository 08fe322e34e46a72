package firestore

const NoneDocumentID = noneDocumentID
